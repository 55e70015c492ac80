package services_test

import (
	"context"
	"sort"
	"sync"

	"cloudtask/tasks-service/models"
	"cloudtask/tasks-service/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeTaskRepo is an in-memory stand-in for the Mongo repository. It clones
// tasks on the way in and out so tests never share memory with the store.
type fakeTaskRepo struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*models.Task)}
}

func cloneTask(t *models.Task) *models.Task {
	out := *t
	if t.AssigneeUserID != nil {
		v := *t.AssigneeUserID
		out.AssigneeUserID = &v
	}
	if t.AssigneeName != nil {
		v := *t.AssigneeName
		out.AssigneeName = &v
	}
	if t.AssigneeEmail != nil {
		v := *t.AssigneeEmail
		out.AssigneeEmail = &v
	}
	if t.AssigneePhoto != nil {
		v := *t.AssigneePhoto
		out.AssigneePhoto = &v
	}
	if t.AssignedAt != nil {
		v := *t.AssignedAt
		out.AssignedAt = &v
	}
	if t.AssignedBy != nil {
		v := *t.AssignedBy
		out.AssignedBy = &v
	}
	out.Assignees = append([]models.TaskAssignee(nil), t.Assignees...)
	return &out
}

func (r *fakeTaskRepo) Insert(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	r.tasks[task.ID.Hex()] = cloneTask(task)
	return cloneTask(task), nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, taskID string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return nil, services.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r *fakeTaskRepo) Save(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks[task.ID.Hex()] = cloneTask(task)
	return cloneTask(task), nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[taskID]; !ok {
		return services.ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

func (r *fakeTaskRepo) findWhere(match func(*models.Task) bool) []*models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*models.Task
	for _, task := range r.tasks {
		if match(task) {
			out = append(out, cloneTask(task))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func assignedTo(t *models.Task, userID string) bool {
	return t.AssigneeUserID != nil && *t.AssigneeUserID == userID
}

func (r *fakeTaskRepo) FindByProject(_ context.Context, projectID string) ([]*models.Task, error) {
	return r.findWhere(func(t *models.Task) bool {
		return t.ProjectID == projectID
	}), nil
}

func (r *fakeTaskRepo) FindByProjectAndStatus(_ context.Context, projectID string, status models.TaskStatus) ([]*models.Task, error) {
	return r.findWhere(func(t *models.Task) bool {
		return t.ProjectID == projectID && t.Status == status
	}), nil
}

func (r *fakeTaskRepo) FindByAssignee(_ context.Context, userID string) ([]*models.Task, error) {
	return r.findWhere(func(t *models.Task) bool {
		return assignedTo(t, userID)
	}), nil
}

func (r *fakeTaskRepo) FindByAssigneeAndStatus(_ context.Context, userID string, status models.TaskStatus) ([]*models.Task, error) {
	return r.findWhere(func(t *models.Task) bool {
		return assignedTo(t, userID) && t.Status == status
	}), nil
}

func (r *fakeTaskRepo) FindByProjectAndAssignee(_ context.Context, projectID, userID string) ([]*models.Task, error) {
	return r.findWhere(func(t *models.Task) bool {
		return t.ProjectID == projectID && assignedTo(t, userID)
	}), nil
}

func (r *fakeTaskRepo) FindUnassignedByProject(_ context.Context, projectID string) ([]*models.Task, error) {
	return r.findWhere(func(t *models.Task) bool {
		return t.ProjectID == projectID && t.AssigneeUserID == nil
	}), nil
}

func (r *fakeTaskRepo) FindUnassignedByProjectAndStatus(_ context.Context, projectID string, status models.TaskStatus) ([]*models.Task, error) {
	return r.findWhere(func(t *models.Task) bool {
		return t.ProjectID == projectID && t.AssigneeUserID == nil && t.Status == status
	}), nil
}

func (r *fakeTaskRepo) FindAssignedByProject(_ context.Context, projectID string) ([]*models.Task, error) {
	return r.findWhere(func(t *models.Task) bool {
		return t.ProjectID == projectID && t.AssigneeUserID != nil
	}), nil
}

func (r *fakeTaskRepo) FindByAssignedBy(_ context.Context, userID string) ([]*models.Task, error) {
	return r.findWhere(func(t *models.Task) bool {
		return t.AssignedBy != nil && *t.AssignedBy == userID
	}), nil
}

func (r *fakeTaskRepo) CountAssigned(ctx context.Context, projectID, userID string) (int64, error) {
	tasks, _ := r.FindByProjectAndAssignee(ctx, projectID, userID)
	return int64(len(tasks)), nil
}

func (r *fakeTaskRepo) CountAssignedByStatus(ctx context.Context, userID string, status models.TaskStatus) (int64, error) {
	tasks, _ := r.FindByAssigneeAndStatus(ctx, userID, status)
	return int64(len(tasks)), nil
}

func (r *fakeTaskRepo) CountAssignedByProjectAndStatus(_ context.Context, projectID, userID string, status models.TaskStatus) (int64, error) {
	tasks := r.findWhere(func(t *models.Task) bool {
		return t.ProjectID == projectID && assignedTo(t, userID) && t.Status == status
	})
	return int64(len(tasks)), nil
}

func (r *fakeTaskRepo) HasAssigned(ctx context.Context, projectID, userID string) (bool, error) {
	count, _ := r.CountAssigned(ctx, projectID, userID)
	return count > 0, nil
}

// fakeProjectsGateway serves membership snapshots from a map. Setting err
// makes every call fail, standing in for an unreachable projects service.
type fakeProjectsGateway struct {
	members map[string][]models.Member
	err     error
}

func newFakeProjectsGateway() *fakeProjectsGateway {
	return &fakeProjectsGateway{members: make(map[string][]models.Member)}
}

func (g *fakeProjectsGateway) addMember(projectID string, member models.Member) {
	g.members[projectID] = append(g.members[projectID], member)
}

func (g *fakeProjectsGateway) GetProjectMembers(_ context.Context, projectID string) ([]models.Member, error) {
	if g.err != nil {
		return nil, g.err
	}
	members, ok := g.members[projectID]
	if !ok {
		return nil, services.ErrProjectNotFound
	}
	return members, nil
}

func (g *fakeProjectsGateway) ProjectExists(_ context.Context, projectID string) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	_, ok := g.members[projectID]
	return ok, nil
}
