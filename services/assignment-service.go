package services

import (
	"context"
	"fmt"
	"time"

	"cloudtask/tasks-service/logging"
	"cloudtask/tasks-service/models"
)

// AssignmentService owns every transition of a task's assignment state.
//
// A task is always in exactly one of three states: unassigned (no assignee
// data at all), single-assigned, or multi-assigned. Every operation here
// replaces the assignment state wholesale through Task.SetAssignees, so a
// task can never end up with a partially populated assignee mirror.
type AssignmentService struct {
	repo     TaskRepository
	projects ProjectsGateway
}

func NewAssignmentService(repo TaskRepository, projects ProjectsGateway) *AssignmentService {
	return &AssignmentService{
		repo:     repo,
		projects: projects,
	}
}

// AssignTask assigns the task to the requested user, replacing any previous
// assignee or assignee list. A request with an empty user id is treated as an
// unassign, not as an error. The target must be a member of the task's
// project, checked against a fresh membership snapshot.
func (s *AssignmentService) AssignTask(ctx context.Context, taskID string, req models.AssignTaskRequest, assignedBy string) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	// Empty assignee means "clear the assignment". Frontends send this
	// when the user picks the blank entry in the assignee dropdown.
	if req.UserID == "" {
		return s.UnassignTask(ctx, taskID)
	}

	members, err := s.projects.GetProjectMembers(ctx, task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members of project %s: %w", task.ProjectID, err)
	}
	if !isMember(members, req.UserID) {
		return nil, &NotAMemberError{UserID: req.UserID, Email: req.Email}
	}

	now := time.Now()
	task.SetAssignees([]models.TaskAssignee{req.Assignee()})
	task.AssignedAt = &now
	task.AssignedBy = &assignedBy
	task.UpdatedAt = now

	updated, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to save assignment: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_ASSIGNED, Description: Task %s assigned to %s by %s", taskID, req.UserID, assignedBy)
	return updated, nil
}

// UnassignTask clears all assignee data from the task. No membership check
// is needed to remove an assignee, and unassigning an unassigned task is a
// harmless no-op on the assignment fields.
func (s *AssignmentService) UnassignTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task.SetAssignees(nil)
	task.AssignedAt = nil
	task.AssignedBy = nil
	task.UpdatedAt = time.Now()

	updated, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to save unassignment: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_UNASSIGNED, Description: Task %s unassigned", taskID)
	return updated, nil
}

// ReassignTask unassigns the task and then assigns it to the new user. The
// two halves commit separately: when the assign half fails (for example the
// new user is not a project member) the unassign has already been written,
// so the task is left unassigned rather than rolled back to its previous
// assignee. Callers must treat a reassign failure as "task is now
// unassigned".
func (s *AssignmentService) ReassignTask(ctx context.Context, taskID string, req models.AssignTaskRequest, reassignedBy string) (*models.Task, error) {
	if _, err := s.UnassignTask(ctx, taskID); err != nil {
		return nil, err
	}
	return s.AssignTask(ctx, taskID, req, reassignedBy)
}

// AssignMultipleUsers replaces the task's assignee list with the given
// entries. An empty list is treated as an unassign. Every entry is validated
// against one membership snapshot before anything is written: if any entry
// is not a project member the task is left untouched.
func (s *AssignmentService) AssignMultipleUsers(ctx context.Context, taskID string, reqs []models.AssignTaskRequest, assignedBy string) (*models.Task, error) {
	task, err := s.repo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if len(reqs) == 0 {
		return s.UnassignTask(ctx, taskID)
	}

	members, err := s.projects.GetProjectMembers(ctx, task.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members of project %s: %w", task.ProjectID, err)
	}

	assignees := make([]models.TaskAssignee, 0, len(reqs))
	for _, req := range reqs {
		if !isMember(members, req.UserID) {
			return nil, &NotAMemberError{UserID: req.UserID, Email: req.Email}
		}
		assignees = append(assignees, req.Assignee())
	}

	now := time.Now()
	task.SetAssignees(assignees)
	task.AssignedAt = &now
	task.AssignedBy = &assignedBy
	task.UpdatedAt = now

	updated, err := s.repo.Save(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to save assignees: %w", err)
	}

	logging.Logger.Infof("Event ID: TASK_MULTI_ASSIGNED, Description: Task %s assigned to %d users by %s", taskID, len(assignees), assignedBy)
	return updated, nil
}

// GetTasksByAssignee returns the user's tasks across all projects, newest
// first.
func (s *AssignmentService) GetTasksByAssignee(ctx context.Context, userID string) ([]*models.Task, error) {
	return s.repo.FindByAssignee(ctx, userID)
}

func (s *AssignmentService) GetTasksByProjectAndAssignee(ctx context.Context, projectID, userID string) ([]*models.Task, error) {
	return s.repo.FindByProjectAndAssignee(ctx, projectID, userID)
}

func (s *AssignmentService) GetTasksByAssigneeAndStatus(ctx context.Context, userID string, status models.TaskStatus) ([]*models.Task, error) {
	return s.repo.FindByAssigneeAndStatus(ctx, userID, status)
}

// GetUnassignedTasks lists the project's unassigned tasks, optionally
// narrowed to one status when status is non-empty.
func (s *AssignmentService) GetUnassignedTasks(ctx context.Context, projectID string, status models.TaskStatus) ([]*models.Task, error) {
	if status != "" {
		return s.repo.FindUnassignedByProjectAndStatus(ctx, projectID, status)
	}
	return s.repo.FindUnassignedByProject(ctx, projectID)
}

// GetAssignedTasks lists the project's tasks that have at least one
// assignee. The project must exist.
func (s *AssignmentService) GetAssignedTasks(ctx context.Context, projectID string) ([]*models.Task, error) {
	exists, err := s.projects.ProjectExists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to check project %s: %w", projectID, err)
	}
	if !exists {
		return nil, ErrProjectNotFound
	}
	return s.repo.FindAssignedByProject(ctx, projectID)
}

func (s *AssignmentService) GetAssignedTaskCount(ctx context.Context, projectID, userID string) (int64, error) {
	return s.repo.CountAssigned(ctx, projectID, userID)
}

func (s *AssignmentService) GetAssignedTaskCountByStatus(ctx context.Context, userID string, status models.TaskStatus) (int64, error) {
	return s.repo.CountAssignedByStatus(ctx, userID, status)
}

func (s *AssignmentService) GetAssignedTaskCountByProjectAndStatus(ctx context.Context, projectID, userID string, status models.TaskStatus) (int64, error) {
	return s.repo.CountAssignedByProjectAndStatus(ctx, projectID, userID, status)
}

func (s *AssignmentService) HasAssignedTasks(ctx context.Context, projectID, userID string) (bool, error) {
	return s.repo.HasAssigned(ctx, projectID, userID)
}

// GetTasksAssignedBy returns the tasks whose current assignment was made by
// the given identity.
func (s *AssignmentService) GetTasksAssignedBy(ctx context.Context, userID string) ([]*models.Task, error) {
	return s.repo.FindByAssignedBy(ctx, userID)
}

func isMember(members []models.Member, userID string) bool {
	for _, m := range members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
