// Package rating keeps a book's averageRating and totalReviews in step with
// its reviews.
package rating

import (
	"context"
	"fmt"

	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// StatsSource computes the rating aggregate over a book's reviews.
type StatsSource interface {
	RatingStats(ctx context.Context, bookID primitive.ObjectID) (models.RatingStats, error)
}

// RatingWriter overwrites a book's derived rating fields. A missing book must
// be a no-op.
type RatingWriter interface {
	UpdateRating(ctx context.Context, bookID primitive.ObjectID, stats models.RatingStats) error
}

// Aggregator recomputes a book's rating from scratch on every call. Calls for
// the same book are serialized within this process so a slower recompute
// cannot overwrite the result of a later one.
type Aggregator struct {
	reviews StatsSource
	books   RatingWriter
	locks   *keyedMutex
	logger  *zap.Logger
}

func NewAggregator(reviews StatsSource, books RatingWriter, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		reviews: reviews,
		books:   books,
		locks:   newKeyedMutex(),
		logger:  logger,
	}
}

// RecomputeBookRating reads every review of bookID and writes the mean rating
// and review count onto the book. With no reviews both become zero. Storage
// errors are returned unchanged apart from wrapping; nothing is retried.
func (a *Aggregator) RecomputeBookRating(ctx context.Context, bookID primitive.ObjectID) (models.RatingStats, error) {
	unlock := a.locks.Lock(bookID)
	defer unlock()

	stats, err := a.reviews.RatingStats(ctx, bookID)
	if err != nil {
		return models.RatingStats{}, fmt.Errorf("recompute rating for book %s: %w", bookID.Hex(), err)
	}
	if err := a.books.UpdateRating(ctx, bookID, stats); err != nil {
		return models.RatingStats{}, fmt.Errorf("recompute rating for book %s: %w", bookID.Hex(), err)
	}

	a.logger.Debug("book rating recomputed",
		zap.String("bookId", bookID.Hex()),
		zap.Float64("averageRating", stats.AverageRating),
		zap.Int("totalReviews", stats.TotalReviews))
	return stats, nil
}

// BookLister pages through the catalogue.
type BookLister interface {
	List(ctx context.Context, filter models.BookFilter, page, limit int) ([]models.Book, int64, error)
}

// RecomputeAll recomputes every book, batch books at a time, and returns how
// many were processed. It stops at the first error.
func (a *Aggregator) RecomputeAll(ctx context.Context, books BookLister, batch int) (int, error) {
	if batch <= 0 {
		batch = 100
	}
	done := 0
	for page := 1; ; page++ {
		list, total, err := books.List(ctx, models.BookFilter{}, page, batch)
		if err != nil {
			return done, fmt.Errorf("list books page %d: %w", page, err)
		}
		for _, b := range list {
			if _, err := a.RecomputeBookRating(ctx, b.ID); err != nil {
				return done, err
			}
			done++
		}
		if len(list) < batch || int64(page*batch) >= total {
			return done, nil
		}
	}
}
