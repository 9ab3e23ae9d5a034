package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/quasydwekat2/task-management-system/models"
)

type TaskRepository interface {
	Insert(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	GetAll(ctx context.Context) ([]models.Task, error)
	GetByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	GetByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.TaskUpdate) (*models.Task, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByAssignee(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CountByAssigneeAndStatus(ctx context.Context, userID primitive.ObjectID, status models.TaskStatus) (int64, error)
}

type MongoTaskRepository struct {
	collection *mongo.Collection
}

func NewMongoTaskRepository(collection *mongo.Collection) *MongoTaskRepository {
	return &MongoTaskRepository{collection: collection}
}

func (r *MongoTaskRepository) Insert(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to insert task: %v", err)
	}
	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoTaskRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *MongoTaskRepository) GetAll(ctx context.Context) ([]models.Task, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoTaskRepository) GetByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return r.find(ctx, bson.M{"projectId": projectID})
}

func (r *MongoTaskRepository) GetByAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Task, error) {
	return r.find(ctx, bson.M{"assignedTo": userID})
}

func (r *MongoTaskRepository) find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve tasks: %v", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	for cursor.Next(ctx) {
		var task models.Task
		if err := cursor.Decode(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task: %v", err)
		}
		tasks = append(tasks, task)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, id primitive.ObjectID, upd models.TaskUpdate) (*models.Task, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.ProjectID != nil {
		set["projectId"] = *upd.ProjectID
	}
	if upd.AssignedTo != nil {
		set["assignedTo"] = *upd.AssignedTo
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.DueDate != nil {
		set["dueDate"] = *upd.DueDate
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var task models.Task
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %v", err)
	}
	return &task, nil
}

func (r *MongoTaskRepository) SetStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("failed to update task status: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete task: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) DeleteByProject(ctx context.Context, projectID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"projectId": projectID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete project tasks: %v", err)
	}
	return result.DeletedCount, nil
}

func (r *MongoTaskRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *MongoTaskRepository) CountByAssignee(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"assignedTo": userID})
}

func (r *MongoTaskRepository) CountByAssigneeAndStatus(ctx context.Context, userID primitive.ObjectID, status models.TaskStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"assignedTo": userID, "status": status})
}
