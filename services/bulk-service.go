package services

import (
	"context"

	"cloudtask/tasks-service/logging"
	"cloudtask/tasks-service/models"
)

// BulkFailure records why one task id in a bulk operation was skipped.
type BulkFailure struct {
	TaskID string `json:"taskId"`
	Reason string `json:"reason"`
}

// BulkResult is the outcome of a bulk operation: the tasks that were
// mutated, in the order they succeeded, plus a failure record for every id
// that was skipped. Nothing is discarded.
type BulkResult struct {
	Succeeded []*models.Task `json:"succeeded"`
	Failed    []BulkFailure  `json:"failed"`
}

// Tasks returns only the succeeded tasks, the shape older clients expect.
func (r BulkResult) Tasks() []*models.Task {
	return r.Succeeded
}

// BulkService applies an assignment operation across many task ids. Items
// are processed sequentially in the given order with no rollback: a failure
// on one id is recorded and the loop moves on.
type BulkService struct {
	assignments *AssignmentService
}

func NewBulkService(assignments *AssignmentService) *BulkService {
	return &BulkService{assignments: assignments}
}

// BulkAssign assigns each task to the requested user. Missing tasks and
// non-member targets are skipped, not fatal.
func (s *BulkService) BulkAssign(ctx context.Context, taskIDs []string, req models.AssignTaskRequest, assignedBy string) BulkResult {
	result := BulkResult{}
	for _, taskID := range taskIDs {
		task, err := s.assignments.AssignTask(ctx, taskID, req, assignedBy)
		if err != nil {
			logging.Logger.Warnf("Event ID: BULK_ASSIGN_ITEM_FAILED, Description: Failed to assign task %s: %v", taskID, err)
			result.Failed = append(result.Failed, BulkFailure{TaskID: taskID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, task)
	}
	return result
}

// BulkUnassign clears the assignment of each task with the same isolation
// policy as BulkAssign.
func (s *BulkService) BulkUnassign(ctx context.Context, taskIDs []string) BulkResult {
	result := BulkResult{}
	for _, taskID := range taskIDs {
		task, err := s.assignments.UnassignTask(ctx, taskID)
		if err != nil {
			logging.Logger.Warnf("Event ID: BULK_UNASSIGN_ITEM_FAILED, Description: Failed to unassign task %s: %v", taskID, err)
			result.Failed = append(result.Failed, BulkFailure{TaskID: taskID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, task)
	}
	return result
}
