package reviewRepo

import (
	"context"
	"errors"

	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicate is returned by Create when the user already reviewed the book.
var ErrDuplicate = errors.New("review already exists for this book and user")

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	// GetByID returns nil, nil when no review has the given id.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByBookAndUser(ctx context.Context, bookID, userID primitive.ObjectID) (*models.Review, error)
	// ListByBook returns one page of a book's reviews, newest first, with reviewer usernames.
	ListByBook(ctx context.Context, bookID primitive.ObjectID, page, limit int) ([]models.ReviewDetail, error)
	CountByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error)
	// Update applies a partial update and returns the new document, or nil if absent.
	Update(ctx context.Context, id primitive.ObjectID, update models.ReviewUpdate) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	DeleteByBook(ctx context.Context, bookID primitive.ObjectID) (int64, error)
	// RatingStats aggregates the mean rating and review count of a book.
	RatingStats(ctx context.Context, bookID primitive.ObjectID) (models.RatingStats, error)
	EnsureIndexes(ctx context.Context) error
}
