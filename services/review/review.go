package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	reviewRepo "bookreview/database/repository/review"
	"bookreview/models"
	"bookreview/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// AddReview stores a user's review of a book and refreshes the book's rating
// before returning. A second review by the same user is rejected without
// touching the book.
func (s *DefaultReviewService) AddReview(ctx context.Context, bookID, userID string, input models.ReviewInput) (*models.Review, error) {
	bID, err := services.ParseID(bookID)
	if err != nil {
		return nil, err
	}
	uID, err := services.ParseID(userID)
	if err != nil {
		return nil, err
	}

	input.Comment = strings.TrimSpace(input.Comment)
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	book, err := s.Books.GetByID(ctx, bID)
	if err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}
	if book == nil {
		return nil, services.ErrBookNotFound
	}

	existing, err := s.Reviews.FindByBookAndUser(ctx, bID, uID)
	if err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}
	if existing != nil {
		return nil, services.ErrDuplicateReview
	}

	rev := &models.Review{
		BookID:  bID,
		UserID:  uID,
		Rating:  input.Rating,
		Comment: input.Comment,
	}
	if err := s.Reviews.Create(ctx, rev); err != nil {
		// Lost a race with a concurrent insert from the same user.
		if errors.Is(err, reviewRepo.ErrDuplicate) {
			return nil, services.ErrDuplicateReview
		}
		return nil, fmt.Errorf("add review: %w", err)
	}

	if err := s.recompute(ctx, bID); err != nil {
		return nil, err
	}
	s.Logger.Info("review added",
		zap.String("reviewId", rev.ID.Hex()),
		zap.String("bookId", bookID),
		zap.String("userId", userID))
	return rev, nil
}

// UpdateReview changes the rating and/or comment of the caller's own review.
// The book's rating is recomputed only when the rating value changed.
func (s *DefaultReviewService) UpdateReview(ctx context.Context, reviewID, userID string, update models.ReviewUpdate) (*models.Review, error) {
	rID, err := services.ParseID(reviewID)
	if err != nil {
		return nil, err
	}
	current, err := s.ownedReview(ctx, rID, userID)
	if err != nil {
		return nil, err
	}

	services.TrimPtr(update.Comment)
	if err := services.Validate(update); err != nil {
		return nil, err
	}
	if update.Rating == nil && update.Comment == nil {
		return current, nil
	}

	updated, err := s.Reviews.Update(ctx, rID, update)
	if err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	if updated == nil {
		return nil, services.ErrReviewNotFound
	}

	if updated.Rating != current.Rating {
		if err := s.recompute(ctx, updated.BookID); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// DeleteReview removes the caller's own review and refreshes the book's rating.
func (s *DefaultReviewService) DeleteReview(ctx context.Context, reviewID, userID string) error {
	rID, err := services.ParseID(reviewID)
	if err != nil {
		return err
	}
	current, err := s.ownedReview(ctx, rID, userID)
	if err != nil {
		return err
	}

	deleted, err := s.Reviews.Delete(ctx, rID)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if !deleted {
		return services.ErrReviewNotFound
	}
	if err := s.recompute(ctx, current.BookID); err != nil {
		return err
	}
	s.Logger.Info("review deleted", zap.String("reviewId", reviewID), zap.String("bookId", current.BookID.Hex()))
	return nil
}

func (s *DefaultReviewService) ListBookReviews(ctx context.Context, bookID string, page, limit int) ([]models.ReviewDetail, models.Pagination, error) {
	bID, err := services.ParseID(bookID)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	reviews, err := s.Reviews.ListByBook(ctx, bID, page, limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list reviews: %w", err)
	}
	total, err := s.Reviews.CountByBook(ctx, bID)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("count reviews: %w", err)
	}
	return reviews, models.NewPagination(page, limit, total), nil
}

func (s *DefaultReviewService) ownedReview(ctx context.Context, id primitive.ObjectID, userID string) (*models.Review, error) {
	uID, err := services.ParseID(userID)
	if err != nil {
		return nil, err
	}
	rev, err := s.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if rev == nil {
		return nil, services.ErrReviewNotFound
	}
	if rev.UserID != uID {
		return nil, services.ErrNotReviewOwner
	}
	return rev, nil
}

// recompute refreshes the rating and drops the cached book. Cache errors are
// logged, not returned. A failed recompute is handed to Repairs when set.
func (s *DefaultReviewService) recompute(ctx context.Context, bookID primitive.ObjectID) error {
	if _, err := s.Ratings.RecomputeBookRating(ctx, bookID); err != nil {
		s.Logger.Error("rating recompute failed", zap.String("bookId", bookID.Hex()), zap.Error(err))
		if s.Repairs != nil {
			if qerr := s.Repairs.EnqueueRecompute(context.WithoutCancel(ctx), bookID); qerr != nil {
				s.Logger.Error("rating repair enqueue failed", zap.String("bookId", bookID.Hex()), zap.Error(qerr))
			}
		}
		return err
	}
	if err := s.Cache.Invalidate(ctx, bookID); err != nil {
		s.Logger.Warn("book cache invalidation failed", zap.String("bookId", bookID.Hex()), zap.Error(err))
	}
	return nil
}
