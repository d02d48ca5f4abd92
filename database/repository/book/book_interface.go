package bookRepo

import (
	"context"

	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookRepository defines methods for book data access.
type BookRepository interface {
	// Create inserts a new book and sets its ID and timestamps.
	Create(ctx context.Context, book *models.Book) error
	// GetByID returns nil, nil when no book has the given id.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	// List returns one page of books matching filter, newest first, and the total match count.
	List(ctx context.Context, filter models.BookFilter, page, limit int) ([]models.Book, int64, error)
	// Search runs a full text search over title, author and description.
	Search(ctx context.Context, query string, limit int) ([]models.Book, error)
	// Update applies a partial update and returns the new document, or nil if absent.
	Update(ctx context.Context, id primitive.ObjectID, update models.BookUpdate) (*models.Book, error)
	// Delete reports whether a book was removed.
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	// GetRating returns only the derived rating fields, or nil when the book is absent.
	GetRating(ctx context.Context, id primitive.ObjectID) (*models.RatingStats, error)
	// UpdateRating overwrites the derived rating fields. Missing books are ignored.
	UpdateRating(ctx context.Context, id primitive.ObjectID, stats models.RatingStats) error
	EnsureIndexes(ctx context.Context) error
}
