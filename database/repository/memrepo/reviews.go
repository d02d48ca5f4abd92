package memrepo

import (
	"context"
	"time"

	reviewRepo "bookreview/database/repository/review"
	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReviewRepo struct{ s *Store }

func (r *ReviewRepo) EnsureIndexes(context.Context) error { return nil }

func (r *ReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err(); err != nil {
		return err
	}
	for _, existing := range r.s.reviews {
		if existing.BookID == review.BookID && existing.UserID == review.UserID {
			return reviewRepo.ErrDuplicate
		}
	}
	if review.ID.IsZero() {
		review.ID = primitive.NewObjectID()
	}
	review.CreatedAt = now()
	review.UpdatedAt = review.CreatedAt
	r.s.reviews[review.ID] = *review
	return nil
}

func (r *ReviewRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	return &review, nil
}

func (r *ReviewRepo) FindByBookAndUser(_ context.Context, bookID, userID primitive.ObjectID) (*models.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	for _, review := range r.s.reviews {
		if review.BookID == bookID && review.UserID == userID {
			return &review, nil
		}
	}
	return nil, nil
}

func (r *ReviewRepo) byBook(bookID primitive.ObjectID) []models.Review {
	var out []models.Review
	for _, review := range r.s.reviews {
		if review.BookID == bookID {
			out = append(out, review)
		}
	}
	return out
}

func (r *ReviewRepo) ListByBook(_ context.Context, bookID primitive.ObjectID, p, limit int) ([]models.ReviewDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	reviews := r.byBook(bookID)
	newestFirst(reviews, func(rv models.Review) time.Time { return rv.CreatedAt })
	details := []models.ReviewDetail{}
	for _, review := range page(reviews, p, limit) {
		details = append(details, models.ReviewDetail{Review: review, Username: r.s.users[review.UserID].Username})
	}
	return details, nil
}

func (r *ReviewRepo) CountByBook(_ context.Context, bookID primitive.ObjectID) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return 0, err
	}
	return int64(len(r.byBook(bookID))), nil
}

func (r *ReviewRepo) Update(_ context.Context, id primitive.ObjectID, update models.ReviewUpdate) (*models.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	review, ok := r.s.reviews[id]
	if !ok {
		return nil, nil
	}
	if update.Rating != nil {
		review.Rating = *update.Rating
	}
	if update.Comment != nil {
		review.Comment = *update.Comment
	}
	review.UpdatedAt = now()
	r.s.reviews[id] = review
	return &review, nil
}

func (r *ReviewRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err(); err != nil {
		return false, err
	}
	_, ok := r.s.reviews[id]
	delete(r.s.reviews, id)
	return ok, nil
}

func (r *ReviewRepo) DeleteByBook(_ context.Context, bookID primitive.ObjectID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err(); err != nil {
		return 0, err
	}
	var n int64
	for id, review := range r.s.reviews {
		if review.BookID == bookID {
			delete(r.s.reviews, id)
			n++
		}
	}
	return n, nil
}

func (r *ReviewRepo) RatingStats(_ context.Context, bookID primitive.ObjectID) (models.RatingStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return models.RatingStats{}, err
	}
	reviews := r.byBook(bookID)
	if len(reviews) == 0 {
		return models.RatingStats{}, nil
	}
	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}
	return models.RatingStats{
		AverageRating: float64(sum) / float64(len(reviews)),
		TotalReviews:  len(reviews),
	}, nil
}
