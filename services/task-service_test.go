package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloudtask/tasks-service/models"
	"cloudtask/tasks-service/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTaskFixture(t *testing.T) (*fakeTaskRepo, *services.TaskService) {
	t.Helper()

	repo := newFakeTaskRepo()
	gateway := newFakeProjectsGateway()
	gateway.addMember(testProject, models.Member{UserID: "m-1", Role: "member"})
	return repo, services.NewTaskService(repo, gateway)
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	_, svc := newTaskFixture(t)

	task, err := svc.CreateTask(context.Background(), "Ship release", "Cut and tag v2", testProject)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if task.Status != models.StatusTodo {
		t.Fatalf("expected status TODO, got %q", task.Status)
	}
	if task.IsAssigned() {
		t.Fatalf("new task must be unassigned, got %+v", task)
	}
	if task.CreatedAt.IsZero() || !task.CreatedAt.Equal(task.UpdatedAt) {
		t.Fatalf("expected createdAt == updatedAt, got %v / %v", task.CreatedAt, task.UpdatedAt)
	}
	if task.ProjectID != testProject {
		t.Fatalf("expected project %q, got %q", testProject, task.ProjectID)
	}
}

func TestCreateTask_ProjectNotFound(t *testing.T) {
	t.Parallel()

	_, svc := newTaskFixture(t)

	_, err := svc.CreateTask(context.Background(), "Ship release", "", "no-such-project")
	if !errors.Is(err, services.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}

func TestUpdateTaskStatus_StoresVerbatim(t *testing.T) {
	t.Parallel()

	_, svc := newTaskFixture(t)
	task, err := svc.CreateTask(context.Background(), "Ship release", "", testProject)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	// The status set is open; unknown values pass through untouched.
	updated, err := svc.UpdateTaskStatus(context.Background(), task.ID.Hex(), "WAITING_ON_LEGAL")
	if err != nil {
		t.Fatalf("UpdateTaskStatus: %v", err)
	}
	if updated.Status != "WAITING_ON_LEGAL" {
		t.Fatalf("expected status stored verbatim, got %q", updated.Status)
	}
	if !updated.UpdatedAt.After(task.UpdatedAt) && !updated.UpdatedAt.Equal(task.UpdatedAt) {
		t.Fatalf("expected updatedAt to move forward, got %v", updated.UpdatedAt)
	}
}

func TestUpdateTaskStatus_NotFound(t *testing.T) {
	t.Parallel()

	_, svc := newTaskFixture(t)

	_, err := svc.UpdateTaskStatus(context.Background(), primitive.NewObjectID().Hex(), models.StatusDone)
	if !errors.Is(err, services.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	_, svc := newTaskFixture(t)
	task, err := svc.CreateTask(context.Background(), "Ship release", "", testProject)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	if err := svc.DeleteTask(context.Background(), task.ID.Hex()); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}

	if _, err := svc.GetTaskByID(context.Background(), task.ID.Hex()); !errors.Is(err, services.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound after delete, got %v", err)
	}

	if err := svc.DeleteTask(context.Background(), task.ID.Hex()); !errors.Is(err, services.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound on second delete, got %v", err)
	}
}

func TestGetProjectTasks_NewestFirst(t *testing.T) {
	t.Parallel()

	repo, svc := newTaskFixture(t)
	older := seedTask(t, repo, testProject, time.Now().Add(-time.Hour))
	newer := seedTask(t, repo, testProject, time.Now())
	seedTask(t, repo, "other-project", time.Now())

	tasks, err := svc.GetProjectTasks(context.Background(), testProject)
	if err != nil {
		t.Fatalf("GetProjectTasks: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != newer.ID || tasks[1].ID != older.ID {
		t.Fatalf("expected [newer, older], got %+v", tasks)
	}
}

func TestGetProjectTasks_ProjectNotFound(t *testing.T) {
	t.Parallel()

	repo, svc := newTaskFixture(t)
	seedTask(t, repo, "other-project", time.Now())

	_, err := svc.GetProjectTasks(context.Background(), "other-project")
	if !errors.Is(err, services.ErrProjectNotFound) {
		t.Fatalf("expected ErrProjectNotFound, got %v", err)
	}
}
