package submission

import (
	"context"
	"testing"

	"go-ojs/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMongoRepo(mt *mtest.T) SubmissionRepository {
	return NewSubmissionRepository(&database.MongodbDB{Client: mt.Client, DB: mt.DB})
}

func updateResponse(matched int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: matched}, bson.E{Key: "nModified", Value: matched})
}

func TestMongoApplyTransition(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("writes update then activity entry", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(updateResponse(1), mtest.CreateSuccessResponse())

		require.NoError(mt, repo.ApplyTransition(context.Background(), "S1", acceptUpdate(nil), acceptEntry()))

		update := mt.GetStartedEvent()
		require.NotNil(mt, update)
		assert.Equal(mt, "update", update.CommandName)
		insert := mt.GetStartedEvent()
		require.NotNil(mt, insert)
		assert.Equal(mt, "insert", insert.CommandName)
	})

	mt.Run("clearing the publish date unsets the field", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(updateResponse(1), mtest.CreateSuccessResponse())

		status := StatusScheduled
		update := Update{Status: &status, ClearScheduledPublishAt: true}
		require.NoError(mt, repo.ApplyTransition(context.Background(), "S1", update, acceptEntry()))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		stmt := evt.Command.Lookup("updates").Array().Index(0).Value().Document()
		_, err := stmt.LookupErr("u", "$unset", "scheduled_publish_at")
		assert.NoError(mt, err)
		_, err = stmt.LookupErr("u", "$set", "scheduled_publish_at")
		assert.Error(mt, err)
	})

	mt.Run("activity insert failure is returned", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(updateResponse(1), mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key",
		}))

		err := repo.ApplyTransition(context.Background(), "S1", acceptUpdate(nil), acceptEntry())
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})

	mt.Run("stale version", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		stale := int64(1)
		mt.AddMockResponses(
			updateResponse(0),
			mtest.CreateCursorResponse(0, "db.submissions", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		err := repo.ApplyTransition(context.Background(), "S1", acceptUpdate(&stale), acceptEntry())
		assert.ErrorIs(mt, err, ErrVersionConflict)
	})

	mt.Run("missing row", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		mt.AddMockResponses(updateResponse(0))

		err := repo.ApplyTransition(context.Background(), "S1", acceptUpdate(nil), acceptEntry())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("missing row with expected version", func(mt *mtest.T) {
		repo := newMongoRepo(mt)
		version := int64(3)
		mt.AddMockResponses(
			updateResponse(0),
			mtest.CreateCursorResponse(0, "db.submissions", mtest.FirstBatch),
		)

		err := repo.ApplyTransition(context.Background(), "S1", acceptUpdate(&version), acceptEntry())
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
