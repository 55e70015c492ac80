package services

import (
	"context"

	"cloudtask/tasks-service/models"
)

// TaskRepository is the durable task store the services run against. The
// MongoDB implementation lives in the repositories package; tests swap in an
// in-memory fake.
type TaskRepository interface {
	Insert(ctx context.Context, task *models.Task) (*models.Task, error)
	// GetByID returns ErrTaskNotFound when no task has the given id.
	GetByID(ctx context.Context, taskID string) (*models.Task, error)
	// Save upserts the task and returns the persisted form.
	Save(ctx context.Context, task *models.Task) (*models.Task, error)
	// Delete removes the task, returning ErrTaskNotFound when nothing matched.
	Delete(ctx context.Context, taskID string) error

	FindByProject(ctx context.Context, projectID string) ([]*models.Task, error)
	FindByProjectAndStatus(ctx context.Context, projectID string, status models.TaskStatus) ([]*models.Task, error)
	FindByAssignee(ctx context.Context, userID string) ([]*models.Task, error)
	FindByAssigneeAndStatus(ctx context.Context, userID string, status models.TaskStatus) ([]*models.Task, error)
	FindByProjectAndAssignee(ctx context.Context, projectID, userID string) ([]*models.Task, error)
	FindUnassignedByProject(ctx context.Context, projectID string) ([]*models.Task, error)
	FindUnassignedByProjectAndStatus(ctx context.Context, projectID string, status models.TaskStatus) ([]*models.Task, error)
	FindAssignedByProject(ctx context.Context, projectID string) ([]*models.Task, error)
	FindByAssignedBy(ctx context.Context, userID string) ([]*models.Task, error)

	CountAssigned(ctx context.Context, projectID, userID string) (int64, error)
	CountAssignedByStatus(ctx context.Context, userID string, status models.TaskStatus) (int64, error)
	CountAssignedByProjectAndStatus(ctx context.Context, projectID, userID string, status models.TaskStatus) (int64, error)
	HasAssigned(ctx context.Context, projectID, userID string) (bool, error)
}

// ProjectsGateway answers project membership questions. Each call fetches a
// fresh snapshot from the projects service; nothing is cached here.
type ProjectsGateway interface {
	GetProjectMembers(ctx context.Context, projectID string) ([]models.Member, error)
	ProjectExists(ctx context.Context, projectID string) (bool, error)
}
