package cron

import (
	"context"
	"errors"
	"testing"

	"bookreview/database/repository/memrepo"
	"bookreview/models"
	"bookreview/services/rating"
	"bookreview/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestHandleRecomputeTaskRepairsDrift(t *testing.T) {
	ctx := context.Background()
	store := memrepo.NewStore()
	book := &models.Book{Title: "Lagoon", Author: "Nnedi Okorafor", Genre: "SciFi", Description: "d"}
	require.NoError(t, store.Books().Create(ctx, book))
	for _, r := range []int{5, 4} {
		require.NoError(t, store.Reviews().Create(ctx, &models.Review{BookID: book.ID, UserID: primitive.NewObjectID(), Rating: r, Comment: "c"}))
	}

	handler := handleRecomputeTask(rating.NewAggregator(store.Reviews(), store.Books(), nil), zap.NewNop())
	task, _, err := tasks.NewRecomputeTask(book.ID)
	require.NoError(t, err)
	require.NoError(t, handler(ctx, task))

	got, err := store.Books().GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.AverageRating)
	assert.Equal(t, 2, got.TotalReviews)
}

type failing struct{ err error }

func (f failing) RecomputeBookRating(context.Context, primitive.ObjectID) (models.RatingStats, error) {
	return models.RatingStats{}, f.err
}

func TestHandleRecomputeTaskErrors(t *testing.T) {
	boom := errors.New("mongo unavailable")
	handler := handleRecomputeTask(failing{err: boom}, zap.NewNop())

	task, _, err := tasks.NewRecomputeTask(primitive.NewObjectID())
	require.NoError(t, err)
	assert.ErrorIs(t, handler(context.Background(), task), boom)

	err = handler(context.Background(), asynq.NewTask(tasks.TypeRecomputeRating, []byte("garbage")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
