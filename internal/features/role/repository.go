package role

import (
	"context"

	"go-ojs/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RoleRepository interface {
	Assign(ctx context.Context, role JournalRole) error
	FindRoles(ctx context.Context, userID, journalID string) ([]string, error)
	// FindJournals lists the journals where userID holds any of roles.
	FindJournals(ctx context.Context, userID string, roles []string) ([]string, error)
	EnsureIndexes(ctx context.Context) error
}

type RoleRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewRoleRepository(mongodb *database.MongodbDB) RoleRepository {
	return &RoleRepositoryImpl{
		Collection: mongodb.DB.Collection(CollectionName),
	}
}

func (r *RoleRepositoryImpl) Assign(ctx context.Context, role JournalRole) error {
	filter := bson.M{"user_id": role.UserID, "journal_id": role.JournalID, "role": role.Role}
	_, err := r.Collection.UpdateOne(ctx, filter, bson.M{"$setOnInsert": role}, options.Update().SetUpsert(true))
	return err
}

func (r *RoleRepositoryImpl) FindRoles(ctx context.Context, userID, journalID string) ([]string, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"user_id": userID, "journal_id": journalID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []JournalRole
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}

	roles := make([]string, 0, len(assignments))
	for _, a := range assignments {
		roles = append(roles, a.Role)
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) FindJournals(ctx context.Context, userID string, roles []string) ([]string, error) {
	values, err := r.Collection.Distinct(ctx, "journal_id", bson.M{"user_id": userID, "role": bson.M{"$in": roles}})
	if err != nil {
		return nil, err
	}

	journals := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			journals = append(journals, id)
		}
	}
	return journals, nil
}

func (r *RoleRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "journal_id", Value: 1}, {Key: "role", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
