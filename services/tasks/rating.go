package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const TypeRecomputeRating = "rating:recompute"

// RecomputePayload names the book whose rating must be rebuilt.
type RecomputePayload struct {
	BookID string `json:"bookId"`
}

func NewRecomputeTask(bookID primitive.ObjectID) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(RecomputePayload{BookID: bookID.Hex()})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRecomputeRating, b)
	opts := []asynq.Option{
		asynq.MaxRetry(10),
		asynq.Timeout(30 * time.Second),
		// Collapse repeated failures for one book into a single pending task.
		asynq.Unique(time.Minute),
	}
	return task, opts, nil
}

// ParseRecomputePayload decodes a task created by NewRecomputeTask.
func ParseRecomputePayload(task *asynq.Task) (primitive.ObjectID, error) {
	var p RecomputePayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return primitive.NilObjectID, fmt.Errorf("decode %s payload: %w", TypeRecomputeRating, err)
	}
	id, err := primitive.ObjectIDFromHex(p.BookID)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("decode %s payload: %w", TypeRecomputeRating, err)
	}
	return id, nil
}

// RatingRepairQueue schedules background recomputes for books whose
// synchronous recompute failed.
type RatingRepairQueue struct {
	client *asynq.Client
}

func NewRatingRepairQueue(client *asynq.Client) *RatingRepairQueue {
	return &RatingRepairQueue{client: client}
}

func (q *RatingRepairQueue) EnqueueRecompute(ctx context.Context, bookID primitive.ObjectID) error {
	task, opts, err := NewRecomputeTask(bookID)
	if err != nil {
		return err
	}
	if _, err := q.client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrDuplicateTask) {
		return fmt.Errorf("enqueue rating recompute for %s: %w", bookID.Hex(), err)
	}
	return nil
}
