package models

// Member is one entry of a project's member list as served by the
// projects service.
type Member struct {
	UserID string `json:"userId"`
	Name   string `json:"displayName"`
	Email  string `json:"userEmail"`
	Role   string `json:"role"`
}

// Project is the read-only slice of a project this service cares about.
// Projects are owned by the projects service.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
