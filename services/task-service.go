package services

import (
	"context"
	"fmt"
	"time"

	"cloudtask/tasks-service/logging"
	"cloudtask/tasks-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskService covers the task lifecycle: creation, status changes, deletion
// and per-project listing. Assignment is AssignmentService's job.
type TaskService struct {
	repo     TaskRepository
	projects ProjectsGateway
}

func NewTaskService(repo TaskRepository, projects ProjectsGateway) *TaskService {
	return &TaskService{
		repo:     repo,
		projects: projects,
	}
}

// CreateTask creates a task in the given project with status TODO and no
// assignee. The project must exist.
func (s *TaskService) CreateTask(ctx context.Context, title, description, projectID string) (*models.Task, error) {
	exists, err := s.projects.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project %s: %w", projectID, err)
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	now := time.Now()
	task := &models.Task{
		ID:          primitive.NewObjectID(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      models.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	task.SetAssignees(nil)

	created, err := s.repo.Insert(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_CREATED, Description: Task %s created in project %s", created.ID.Hex(), projectID)
	return created, nil
}

// UpdateTaskStatus sets the task's status verbatim. The status set is open:
// the caller is trusted and unknown values are stored as-is.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.Status = status
	task.UpdatedAt = time.Now()

	updated, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s moved to status %s", taskID, status)
	return updated, nil
}

// DeleteTask removes the task permanently.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.repo.Delete(ctx, taskID); err != nil {
		return err
	}
	logging.Logger.Infof("Event ID: TASK_DELETED, Description: Task %s deleted", taskID)
	return nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	return s.repo.GetByID(ctx, taskID)
}

// GetProjectTasks lists the project's tasks, newest first. The project must
// exist.
func (s *TaskService) GetProjectTasks(ctx context.Context, projectID string) ([]*models.Task, error) {
	exists, err := s.projects.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project %s: %w", projectID, err)
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	return s.repo.FindByProject(ctx, projectID)
}
