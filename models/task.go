package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskStatus string

// Known status values. The service stores any non-empty status verbatim;
// these are the ones the frontend actually uses.
const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// TaskAssignee is one entry of a task's assignee list.
type TaskAssignee struct {
	UserID string `json:"userId" bson:"userId"`
	Name   string `json:"name" bson:"name"`
	Email  string `json:"email" bson:"email"`
	Photo  string `json:"photo" bson:"photo"`
}

// Task is a work item scoped to exactly one project.
//
// Assignment is held in two shapes: Assignees is the canonical list, and the
// flat Assignee* fields mirror its first entry for single-assignee clients.
// The four flat fields are always all set or all null; SetAssignees keeps
// the mirror in step and is the only place that should touch it.
type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProjectID   string             `json:"projectId" bson:"projectId"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Status      TaskStatus         `json:"status" bson:"status"`

	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`

	AssigneeUserID *string    `json:"assigneeUserId" bson:"assigneeUserId"`
	AssigneeName   *string    `json:"assigneeName" bson:"assigneeName"`
	AssigneeEmail  *string    `json:"assigneeEmail" bson:"assigneeEmail"`
	AssigneePhoto  *string    `json:"assigneePhoto" bson:"assigneePhoto"`
	AssignedAt     *time.Time `json:"assignedAt" bson:"assignedAt"`
	AssignedBy     *string    `json:"assignedBy" bson:"assignedBy"`

	Assignees []TaskAssignee `json:"assignees" bson:"assignees"`
}

// SetAssignees replaces the assignee list and re-derives the flat mirror
// fields from its first entry. An empty or nil list leaves the task with no
// assignee data at all.
func (t *Task) SetAssignees(assignees []TaskAssignee) {
	if len(assignees) == 0 {
		t.Assignees = []TaskAssignee{}
		t.AssigneeUserID = nil
		t.AssigneeName = nil
		t.AssigneeEmail = nil
		t.AssigneePhoto = nil
		return
	}

	t.Assignees = assignees
	first := assignees[0]
	t.AssigneeUserID = &first.UserID
	t.AssigneeName = &first.Name
	t.AssigneeEmail = &first.Email
	t.AssigneePhoto = &first.Photo
}

// IsAssigned reports whether the task currently has at least one assignee.
func (t *Task) IsAssigned() bool {
	return len(t.Assignees) > 0 || t.AssigneeUserID != nil
}
