package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/task-relations-api/internal/database"
	"github.com/yukikurage/task-relations-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewMongoTaskRepository creates a TaskRepository backed by the tasks collection
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{coll: db.Collection(database.TasksCollection)}
}

// Create inserts a task
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	res, err := r.coll.InsertOne(ctx, newTaskDocument(task))
	if err != nil {
		return translateMongoError(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid.Hex()
	}
	return nil
}

// FindByID finds a task by ID
func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	task := doc.toModel()
	return &task, nil
}

// Find finds every task whose ID is in ids
func (r *MongoTaskRepository) Find(ctx context.Context, ids []string) ([]models.Task, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []models.Task{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find())
}

// List retrieves tasks with filtering and pagination
func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, int64, error) {
	query := taskFilterDocument(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, translateMongoError(err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "dateCreated", Value: -1}, {Key: "_id", Value: 1}})
	if filter.Page > 0 && filter.PageSize > 0 {
		opts.SetSkip(int64((filter.Page - 1) * filter.PageSize)).SetLimit(int64(filter.PageSize))
	}

	tasks, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// Update applies a partial update to one task
func (r *MongoTaskRepository) Update(ctx context.Context, id string, fields TaskFields) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	if fields.IsEmpty() {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, taskUpdateDocument(fields))
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateWhere applies a partial update to every matching task
func (r *MongoTaskRepository) UpdateWhere(ctx context.Context, filter TaskFilter, fields TaskFields) (int64, error) {
	if filter.IsEmpty() {
		return 0, ErrEmptyFilter
	}
	if fields.IsEmpty() || (filter.IDs != nil && len(objectIDs(filter.IDs)) == 0) {
		return 0, nil
	}

	res, err := r.coll.UpdateMany(ctx, taskFilterDocument(filter), taskUpdateDocument(fields))
	if err != nil {
		return 0, translateMongoError(err)
	}
	return res.MatchedCount, nil
}

// Delete deletes a task
func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translateMongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) find(ctx context.Context, query interface{}, opts *options.FindOptions) ([]models.Task, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, translateMongoError(err)
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err)
	}

	tasks := make([]models.Task, len(docs))
	for i, doc := range docs {
		tasks[i] = doc.toModel()
	}
	return tasks, nil
}

// translateMongoError maps driver errors onto repository errors
func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicateEmail
	default:
		return err
	}
}
