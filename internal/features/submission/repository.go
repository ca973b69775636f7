package submission

import (
	"context"
	"errors"
	"time"

	"go-ojs/internal/database"
	"go-ojs/internal/features/activity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission Submission) error
	GetByID(ctx context.Context, id string) (*Submission, error)
	FindJournalID(ctx context.Context, id string) (string, error)
	ListDueForPublication(ctx context.Context, now time.Time, limit int64) ([]Submission, error)
	// ApplyTransition writes the update and appends the activity entry as one unit.
	ApplyTransition(ctx context.Context, id string, update Update, entry activity.Entry) error
	EnsureIndexes(ctx context.Context) error
}

type SubmissionRepositoryImpl struct {
	db         *database.MongodbDB
	Collection *mongo.Collection
	Activity   *mongo.Collection
}

func NewSubmissionRepository(mongodb *database.MongodbDB) SubmissionRepository {
	return &SubmissionRepositoryImpl{
		db:         mongodb,
		Collection: mongodb.DB.Collection(CollectionName),
		Activity:   mongodb.DB.Collection(activity.CollectionName),
	}
}

func (r *SubmissionRepositoryImpl) Create(ctx context.Context, submission Submission) error {
	_, err := r.Collection.InsertOne(ctx, submission)
	return err
}

func (r *SubmissionRepositoryImpl) GetByID(ctx context.Context, id string) (*Submission, error) {
	var submission Submission
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&submission)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepositoryImpl) FindJournalID(ctx context.Context, id string) (string, error) {
	var doc struct {
		JournalID string `bson:"journal_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"journal_id": 1})
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", err
	}
	return doc.JournalID, nil
}

func (r *SubmissionRepositoryImpl) ListDueForPublication(ctx context.Context, now time.Time, limit int64) ([]Submission, error) {
	filter := bson.M{
		"status":               StatusScheduled,
		"is_archived":          false,
		"scheduled_publish_at": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.M{"scheduled_publish_at": 1}).SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var submissions []Submission
	if err = cursor.All(ctx, &submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *SubmissionRepositoryImpl) ApplyTransition(ctx context.Context, id string, update Update, entry activity.Entry) error {
	set := bson.M{"updated_at": entry.CreatedAt}
	unset := bson.M{}
	for k, v := range update.Fields() {
		if v == nil {
			unset[k] = ""
			continue
		}
		set[k] = v
	}
	change := bson.M{"$set": set, "$inc": bson.M{"version": 1}}
	if len(unset) > 0 {
		change["$unset"] = unset
	}

	filter := bson.M{"_id": id}
	if update.ExpectedVersion != nil {
		filter["version"] = *update.ExpectedVersion
	}

	return r.db.WithTransaction(ctx, func(ctx context.Context) error {
		res, err := r.Collection.UpdateOne(ctx, filter, change)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return r.missError(ctx, id, update)
		}

		_, err = r.Activity.InsertOne(ctx, entry)
		return err
	})
}

// missError tells a stale version apart from a missing row.
func (r *SubmissionRepositoryImpl) missError(ctx context.Context, id string, update Update) error {
	if update.ExpectedVersion == nil {
		return ErrNotFound
	}
	n, err := r.Collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrVersionConflict
}

func (r *SubmissionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "journal_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduled_publish_at", Value: 1}}},
	})
	return err
}
