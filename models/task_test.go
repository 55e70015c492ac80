package models

import "testing"

func TestSetAssigneesDerivesMirror(t *testing.T) {
	t.Parallel()

	var task Task

	task.SetAssignees([]TaskAssignee{
		{UserID: "u-1", Name: "Mira", Email: "mira@cloudtask.dev", Photo: "p1"},
		{UserID: "u-2", Name: "Bojan", Email: "bojan@cloudtask.dev", Photo: "p2"},
	})

	if task.AssigneeUserID == nil || *task.AssigneeUserID != "u-1" {
		t.Fatalf("mirror user id should follow the first entry, got %+v", task.AssigneeUserID)
	}
	if task.AssigneeName == nil || task.AssigneeEmail == nil || task.AssigneePhoto == nil {
		t.Fatalf("all mirror fields must be set together, got %+v", task)
	}
	if !task.IsAssigned() {
		t.Fatal("expected task to be assigned")
	}
}

func TestSetAssigneesEmptyClearsMirror(t *testing.T) {
	t.Parallel()

	var task Task
	task.SetAssignees([]TaskAssignee{{UserID: "u-1"}})

	task.SetAssignees(nil)

	if task.AssigneeUserID != nil || task.AssigneeName != nil || task.AssigneeEmail != nil || task.AssigneePhoto != nil {
		t.Fatalf("all mirror fields must be cleared together, got %+v", task)
	}
	if len(task.Assignees) != 0 {
		t.Fatalf("expected empty assignee list, got %+v", task.Assignees)
	}
	if task.IsAssigned() {
		t.Fatal("expected task to be unassigned")
	}
}
