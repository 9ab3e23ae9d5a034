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

type ProjectRepository interface {
	Insert(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error)
	GetAll(ctx context.Context) ([]models.Project, error)
	GetByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.ProjectUpdate) (*models.Project, error)
	// SetProgress is the progress engine write path: one update carrying the
	// derived progress and, when the transition rule fired, the new status.
	SetProgress(ctx context.Context, id primitive.ObjectID, progress int, status *models.ProjectStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.ProjectStatus) (int64, error)
	CountByStudentAndStatus(ctx context.Context, studentID primitive.ObjectID, status models.ProjectStatus) (int64, error)
}

type MongoProjectRepository struct {
	collection *mongo.Collection
}

func NewMongoProjectRepository(collection *mongo.Collection) *MongoProjectRepository {
	return &MongoProjectRepository{collection: collection}
}

func (r *MongoProjectRepository) Insert(ctx context.Context, project *models.Project) error {
	if project.ID.IsZero() {
		project.ID = primitive.NewObjectID()
	}
	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return fmt.Errorf("failed to insert project: %v", err)
	}
	project.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *MongoProjectRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *MongoProjectRepository) GetAll(ctx context.Context) ([]models.Project, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoProjectRepository) GetByStudent(ctx context.Context, studentID primitive.ObjectID) ([]models.Project, error) {
	return r.find(ctx, bson.M{"students": studentID})
}

func (r *MongoProjectRepository) find(ctx context.Context, filter bson.M) ([]models.Project, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve projects: %v", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	for cursor.Next(ctx) {
		var project models.Project
		if err := cursor.Decode(&project); err != nil {
			return nil, fmt.Errorf("failed to decode project: %v", err)
		}
		projects = append(projects, project)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return projects, nil
}

func (r *MongoProjectRepository) Update(ctx context.Context, id primitive.ObjectID, upd models.ProjectUpdate) (*models.Project, error) {
	set := bson.M{}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Students != nil {
		set["students"] = *upd.Students
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.StartDate != nil {
		set["startDate"] = *upd.StartDate
	}
	if upd.EndDate != nil {
		set["endDate"] = *upd.EndDate
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.Progress != nil {
		set["progress"] = *upd.Progress
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)

	var project models.Project
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&project)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %v", err)
	}
	return &project, nil
}

func (r *MongoProjectRepository) SetProgress(ctx context.Context, id primitive.ObjectID, progress int, status *models.ProjectStatus) error {
	set := bson.M{"progress": progress}
	if status != nil {
		set["status"] = *status
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update project progress: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProjectRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %v", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProjectRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *MongoProjectRepository) CountByStatus(ctx context.Context, status models.ProjectStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

func (r *MongoProjectRepository) CountByStudentAndStatus(ctx context.Context, studentID primitive.ObjectID, status models.ProjectStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"students": studentID, "status": status})
}
