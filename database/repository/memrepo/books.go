package memrepo

import (
	"context"
	"strings"
	"time"

	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookRepo struct{ s *Store }

func (r *BookRepo) EnsureIndexes(context.Context) error { return nil }

func (r *BookRepo) Create(_ context.Context, book *models.Book) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err(); err != nil {
		return err
	}
	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	book.CreatedAt = now()
	book.UpdatedAt = book.CreatedAt
	r.s.books[book.ID] = *book
	return nil
}

func (r *BookRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	book, ok := r.s.books[id]
	if !ok {
		return nil, nil
	}
	return &book, nil
}

func (r *BookRepo) List(_ context.Context, filter models.BookFilter, p, limit int) ([]models.Book, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return nil, 0, err
	}
	var matched []models.Book
	for _, b := range r.s.books {
		if filter.Genre != "" && b.Genre != filter.Genre {
			continue
		}
		if filter.Author != "" && !containsFold(b.Author, strings.TrimSpace(filter.Author)) {
			continue
		}
		matched = append(matched, b)
	}
	newestFirst(matched, func(b models.Book) time.Time { return b.CreatedAt })
	return page(matched, p, limit), int64(len(matched)), nil
}

// Search matches any query word against title, author or description.
func (r *BookRepo) Search(_ context.Context, query string, limit int) ([]models.Book, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	books := []models.Book{}
	for _, b := range r.s.books {
		text := b.Title + " " + b.Author + " " + b.Description
		for _, word := range strings.Fields(query) {
			if containsFold(text, word) {
				books = append(books, b)
				break
			}
		}
	}
	newestFirst(books, func(b models.Book) time.Time { return b.CreatedAt })
	return page(books, 1, limit), nil
}

func (r *BookRepo) Update(_ context.Context, id primitive.ObjectID, update models.BookUpdate) (*models.Book, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	book, ok := r.s.books[id]
	if !ok {
		return nil, nil
	}
	if update.Title != nil {
		book.Title = *update.Title
	}
	if update.Author != nil {
		book.Author = *update.Author
	}
	if update.Genre != nil {
		book.Genre = *update.Genre
	}
	if update.Description != nil {
		book.Description = *update.Description
	}
	book.UpdatedAt = now()
	r.s.books[id] = book
	return &book, nil
}

func (r *BookRepo) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err(); err != nil {
		return false, err
	}
	_, ok := r.s.books[id]
	delete(r.s.books, id)
	return ok, nil
}

func (r *BookRepo) GetRating(_ context.Context, id primitive.ObjectID) (*models.RatingStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	book, ok := r.s.books[id]
	if !ok {
		return nil, nil
	}
	return &models.RatingStats{AverageRating: book.AverageRating, TotalReviews: book.TotalReviews}, nil
}

func (r *BookRepo) UpdateRating(_ context.Context, id primitive.ObjectID, stats models.RatingStats) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err(); err != nil {
		return err
	}
	book, ok := r.s.books[id]
	if !ok {
		return nil
	}
	book.AverageRating = stats.AverageRating
	book.TotalReviews = stats.TotalReviews
	r.s.books[id] = book
	return nil
}
