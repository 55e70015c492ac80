package models

// AssignTaskRequest carries the assignee a caller wants on a task. A request
// with an empty UserID means "remove the assignee" rather than being an
// error; the services treat it as an unassign.
type AssignTaskRequest struct {
	UserID string `json:"assigneeUserId"`
	Name   string `json:"assigneeName"`
	Email  string `json:"assigneeEmail"`
	Photo  string `json:"assigneePhoto"`
}

// Assignee converts the request into a task assignee entry.
func (r AssignTaskRequest) Assignee() TaskAssignee {
	return TaskAssignee{
		UserID: r.UserID,
		Name:   r.Name,
		Email:  r.Email,
		Photo:  r.Photo,
	}
}
