package activity

import (
	"context"

	"go-ojs/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityRepository is append-only: entries are never updated or deleted.
type ActivityRepository interface {
	Append(ctx context.Context, entry Entry) error
	ListBySubmission(ctx context.Context, submissionID string, limit, offset int64) ([]Entry, error)
	EnsureIndexes(ctx context.Context) error
}

type ActivityRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewActivityRepository(mongodb *database.MongodbDB) ActivityRepository {
	return &ActivityRepositoryImpl{
		Collection: mongodb.DB.Collection(CollectionName),
	}
}

func (r *ActivityRepositoryImpl) Append(ctx context.Context, entry Entry) error {
	_, err := r.Collection.InsertOne(ctx, entry)
	return err
}

func (r *ActivityRepositoryImpl) ListBySubmission(ctx context.Context, submissionID string, limit, offset int64) ([]Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.Collection.Find(ctx, bson.M{"submission_id": submissionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []Entry{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ActivityRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "submission_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
