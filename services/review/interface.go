package review

import (
	"context"

	bookRepo "bookreview/database/repository/book"
	reviewRepo "bookreview/database/repository/review"
	"bookreview/models"
	"bookreview/services/cache"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ReviewService interface {
	AddReview(ctx context.Context, bookID, userID string, input models.ReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, reviewID, userID string, update models.ReviewUpdate) (*models.Review, error)
	DeleteReview(ctx context.Context, reviewID, userID string) error
	ListBookReviews(ctx context.Context, bookID string, page, limit int) ([]models.ReviewDetail, models.Pagination, error)
}

// Recomputer refreshes a book's derived rating fields.
type Recomputer interface {
	RecomputeBookRating(ctx context.Context, bookID primitive.ObjectID) (models.RatingStats, error)
}

// RepairQueue schedules a background recompute for a book.
type RepairQueue interface {
	EnqueueRecompute(ctx context.Context, bookID primitive.ObjectID) error
}

// DefaultReviewService is the production implementation.
type DefaultReviewService struct {
	Books   bookRepo.BookRepository
	Reviews reviewRepo.ReviewRepository
	Ratings Recomputer
	Cache   cache.BookCache
	// Repairs is optional. When set, a failed recompute is retried in the background.
	Repairs RepairQueue
	Logger  *zap.Logger
}

func NewReviewService(books bookRepo.BookRepository, reviews reviewRepo.ReviewRepository, ratings Recomputer, bookCache cache.BookCache, logger *zap.Logger) *DefaultReviewService {
	if bookCache == nil {
		bookCache = cache.NopBookCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultReviewService{
		Books:   books,
		Reviews: reviews,
		Ratings: ratings,
		Cache:   bookCache,
		Logger:  logger,
	}
}
