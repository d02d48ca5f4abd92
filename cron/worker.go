package cron

import (
	"context"
	"fmt"

	"bookreview/models"
	"bookreview/services/tasks"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Recomputer rebuilds a book's derived rating fields.
type Recomputer interface {
	RecomputeBookRating(ctx context.Context, bookID primitive.ObjectID) (models.RatingStats, error)
}

// RatingWorker drains the rating repair queue.
type RatingWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewRatingWorker(redisOpts asynq.RedisClientOpt, ratings Recomputer, logger *zap.Logger) *RatingWorker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 4,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeRecomputeRating, handleRecomputeTask(ratings, logger))
	return &RatingWorker{srv: srv, mux: mux, logger: logger}
}

// Start runs the worker in the background.
func (w *RatingWorker) Start() error {
	if err := w.srv.Start(w.mux); err != nil {
		return fmt.Errorf("start rating worker: %w", err)
	}
	w.logger.Info("rating repair worker started")
	return nil
}

func (w *RatingWorker) Shutdown() {
	w.srv.Shutdown()
}

func handleRecomputeTask(ratings Recomputer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		bookID, err := tasks.ParseRecomputePayload(task)
		if err != nil {
			logger.Error("dropping malformed rating task", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		stats, err := ratings.RecomputeBookRating(ctx, bookID)
		if err != nil {
			logger.Warn("rating repair failed, will retry", zap.String("bookId", bookID.Hex()), zap.Error(err))
			return err
		}
		logger.Info("rating repaired",
			zap.String("bookId", bookID.Hex()),
			zap.Float64("averageRating", stats.AverageRating),
			zap.Int("totalReviews", stats.TotalReviews))
		return nil
	}
}
