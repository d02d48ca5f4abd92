package userRepo

import (
	"context"
	"testing"

	"bookreview/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const ns = "test.users"

func TestMongoUserRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}))

		err := repo.Create(ctx, &models.User{Username: "ged", Email: "ged@roke.edu"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: id},
				{Key: "username", Value: "ged"},
				{Key: "email", Value: "ged@roke.edu"},
				{Key: "passwordHash", Value: "hash"},
			}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		user, err := repo.GetByEmailWithProjection(ctx, "ged@roke.edu", nil)
		require.NoError(mt, err)
		require.NotNil(mt, user)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "hash", user.PasswordHash)

		user, err = repo.GetByEmailWithProjection(ctx, "nobody@roke.edu", nil)
		require.NoError(mt, err)
		assert.Nil(mt, user)
	})

	mt.Run("availability", func(mt *mtest.T) {
		repo := NewMongoUserRepo(mt.DB)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
		)

		available, err := repo.IsUserAvailable(ctx, "ged", "ged@roke.edu")
		require.NoError(mt, err)
		assert.False(mt, available)

		available, err = repo.IsUserAvailable(ctx, "tenar", "tenar@atuan.org")
		require.NoError(mt, err)
		assert.True(mt, available)
	})
}
