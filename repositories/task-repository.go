package repositories

import (
	"context"
	"errors"
	"fmt"

	"cloudtask/tasks-service/models"
	"cloudtask/tasks-service/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskRepository is the MongoDB-backed task store.
type TaskRepository struct {
	collection *mongo.Collection
}

func NewTaskRepository(collection *mongo.Collection) *TaskRepository {
	return &TaskRepository{collection: collection}
}

var createdDesc = options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

func (r *TaskRepository) Insert(ctx context.Context, task *models.Task) (*models.Task, error) {
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task: %w", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return task, nil
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*models.Task, error) {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		// A malformed id can never match a stored task.
		return nil, services.ErrTaskNotFound
	}

	var task models.Task
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task %s: %w", taskID, err)
	}
	return &task, nil
}

func (r *TaskRepository) Save(ctx context.Context, task *models.Task) (*models.Task, error) {
	filter := bson.M{"_id": task.ID}
	if _, err := r.collection.ReplaceOne(ctx, filter, task, options.Replace().SetUpsert(true)); err != nil {
		return nil, fmt.Errorf("failed to save task %s: %w", task.ID.Hex(), err)
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	objectID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		return services.ErrTaskNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	if result.DeletedCount == 0 {
		return services.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) FindByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID})
}

func (r *TaskRepository) FindByProjectAndStatus(ctx context.Context, projectID string, status models.TaskStatus) ([]*models.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID, "status": status})
}

func (r *TaskRepository) FindByAssignee(ctx context.Context, userID string) ([]*models.Task, error) {
	return r.find(ctx, bson.M{"assigneeUserId": userID})
}

func (r *TaskRepository) FindByAssigneeAndStatus(ctx context.Context, userID string, status models.TaskStatus) ([]*models.Task, error) {
	return r.find(ctx, bson.M{"assigneeUserId": userID, "status": status})
}

func (r *TaskRepository) FindByProjectAndAssignee(ctx context.Context, projectID, userID string) ([]*models.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID, "assigneeUserId": userID})
}

func (r *TaskRepository) FindUnassignedByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID, "assigneeUserId": nil})
}

func (r *TaskRepository) FindUnassignedByProjectAndStatus(ctx context.Context, projectID string, status models.TaskStatus) ([]*models.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID, "assigneeUserId": nil, "status": status})
}

func (r *TaskRepository) FindAssignedByProject(ctx context.Context, projectID string) ([]*models.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID, "assigneeUserId": bson.M{"$ne": nil}})
}

func (r *TaskRepository) FindByAssignedBy(ctx context.Context, userID string) ([]*models.Task, error) {
	return r.find(ctx, bson.M{"assignedBy": userID})
}

func (r *TaskRepository) CountAssigned(ctx context.Context, projectID, userID string) (int64, error) {
	return r.count(ctx, bson.M{"projectId": projectID, "assigneeUserId": userID})
}

func (r *TaskRepository) CountAssignedByStatus(ctx context.Context, userID string, status models.TaskStatus) (int64, error) {
	return r.count(ctx, bson.M{"assigneeUserId": userID, "status": status})
}

func (r *TaskRepository) CountAssignedByProjectAndStatus(ctx context.Context, projectID, userID string, status models.TaskStatus) (int64, error) {
	return r.count(ctx, bson.M{"projectId": projectID, "assigneeUserId": userID, "status": status})
}

func (r *TaskRepository) HasAssigned(ctx context.Context, projectID, userID string) (bool, error) {
	count, err := r.count(ctx, bson.M{"projectId": projectID, "assigneeUserId": userID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *TaskRepository) find(ctx context.Context, filter bson.M) ([]*models.Task, error) {
	cursor, err := r.collection.Find(ctx, filter, createdDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer cursor.Close(ctx)

	var tasks []*models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}
