package repository

import (
	"context"
	"time"

	"github.com/yukikurage/task-relations-api/internal/database"
	"github.com/yukikurage/task-relations-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository is a MongoDB implementation of UserRepository.
// Email uniqueness relies on the unique index created by database.EnsureMongoIndexes.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a UserRepository backed by the users collection
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &MongoUserRepository{coll: db.Collection(database.UsersCollection)}
}

// Create inserts a user
func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}

	doc := newUserDocument(user)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return translateMongoError(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid.Hex()
	}
	user.PendingTasks = sortedCopy(doc.PendingTasks)
	return nil
}

// FindByID finds a user by ID
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByEmail finds a user by email
func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// Find finds every user whose ID is in ids
func (r *MongoUserRepository) Find(ctx context.Context, ids []string) ([]models.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []models.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find())
}

// List retrieves users with filtering and pagination
func (r *MongoUserRepository) List(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	query := bson.M{}
	if filter.Email != nil {
		query["email"] = *filter.Email
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, translateMongoError(err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "dateCreated", Value: -1}, {Key: "_id", Value: 1}})
	if filter.Page > 0 && filter.PageSize > 0 {
		opts.SetSkip(int64((filter.Page - 1) * filter.PageSize)).SetLimit(int64(filter.PageSize))
	}

	users, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update applies a partial update to one user
func (r *MongoUserRepository) Update(ctx context.Context, id string, fields UserFields) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	update := userUpdateDocument(fields)
	if len(update) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddPendingTask adds a task to the user's pending set with $addToSet
func (r *MongoUserRepository) AddPendingTask(ctx context.Context, userID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$addToSet": bson.M{"pendingTasks": taskID}})
	return translateMongoError(err)
}

// RemovePendingTask removes a task from the user's pending set with $pull
func (r *MongoUserRepository) RemovePendingTask(ctx context.Context, userID, taskID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$pull": bson.M{"pendingTasks": taskID}})
	return translateMongoError(err)
}

// Delete deletes a user
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
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

func (r *MongoUserRepository) findOne(ctx context.Context, query bson.M) (*models.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, query).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	user := doc.toModel()
	return &user, nil
}

func (r *MongoUserRepository) find(ctx context.Context, query interface{}, opts *options.FindOptions) ([]models.User, error) {
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, translateMongoError(err)
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err)
	}

	users := make([]models.User, len(docs))
	for i, doc := range docs {
		users[i] = doc.toModel()
	}
	return users, nil
}
