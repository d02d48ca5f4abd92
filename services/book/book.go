package book

import (
	"context"
	"fmt"
	"strings"

	"bookreview/models"
	"bookreview/services"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// CreateBook stores a new book with an empty rating.
func (s *DefaultBookService) CreateBook(ctx context.Context, input models.BookInput) (*models.Book, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Author = strings.TrimSpace(input.Author)
	input.Genre = strings.TrimSpace(input.Genre)
	input.Description = strings.TrimSpace(input.Description)
	if err := services.Validate(input); err != nil {
		return nil, err
	}

	book := &models.Book{
		Title:       input.Title,
		Author:      input.Author,
		Genre:       input.Genre,
		Description: input.Description,
	}
	if err := s.Books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	s.Logger.Info("book created", zap.String("bookId", book.ID.Hex()), zap.String("title", book.Title))
	return book, nil
}

func (s *DefaultBookService) ListBooks(ctx context.Context, filter models.BookFilter, page, limit int) ([]models.Book, models.Pagination, error) {
	filter.Genre = strings.TrimSpace(filter.Genre)
	filter.Author = strings.TrimSpace(filter.Author)

	books, total, err := s.Books.List(ctx, filter, page, limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list books: %w", err)
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, models.NewPagination(page, limit, total), nil
}

// GetBook returns a book with one page of its reviews. The book itself is
// served from cache when possible.
func (s *DefaultBookService) GetBook(ctx context.Context, id string, page, limit int) (*models.BookDetails, error) {
	bookID, err := services.ParseID(id)
	if err != nil {
		return nil, err
	}

	book, err := s.cachedBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.Reviews.ListByBook(ctx, bookID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	total, err := s.Reviews.CountByBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	if reviews == nil {
		reviews = []models.ReviewDetail{}
	}
	return &models.BookDetails{
		Book:       book,
		Reviews:    reviews,
		Pagination: models.NewPagination(page, limit, total),
	}, nil
}

// cachedBook serves the descriptive fields from cache. The rating fields are
// never cached and are read from storage on every call, so a fill racing a
// recompute cannot pin a stale aggregate.
func (s *DefaultBookService) cachedBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	cached, err := s.Cache.Get(ctx, id)
	if err != nil {
		s.Logger.Warn("book cache read failed", zap.String("bookId", id.Hex()), zap.Error(err))
	}
	if cached != nil {
		stats, err := s.Books.GetRating(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get book rating: %w", err)
		}
		if stats == nil {
			s.invalidate(ctx, id)
			return nil, services.ErrBookNotFound
		}
		cached.AverageRating = stats.AverageRating
		cached.TotalReviews = stats.TotalReviews
		return cached, nil
	}

	book, err := s.Books.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book == nil {
		return nil, services.ErrBookNotFound
	}
	entry := *book
	entry.AverageRating = 0
	entry.TotalReviews = 0
	if err := s.Cache.Set(ctx, &entry); err != nil {
		s.Logger.Warn("book cache write failed", zap.String("bookId", id.Hex()), zap.Error(err))
	}
	return book, nil
}

// SearchBooks runs a full text search and returns the best matches.
func (s *DefaultBookService) SearchBooks(ctx context.Context, query string) ([]models.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.NewValidationError("Search query is required")
	}
	books, err := s.Books.Search(ctx, query, s.SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	if books == nil {
		books = []models.Book{}
	}
	return books, nil
}

// UpdateBook changes descriptive fields. The rating fields are never
// accepted from callers.
func (s *DefaultBookService) UpdateBook(ctx context.Context, id string, update models.BookUpdate) (*models.Book, error) {
	bookID, err := services.ParseID(id)
	if err != nil {
		return nil, err
	}
	services.TrimPtr(update.Title)
	services.TrimPtr(update.Author)
	services.TrimPtr(update.Genre)
	services.TrimPtr(update.Description)
	if err := services.Validate(update); err != nil {
		return nil, err
	}

	book, err := s.Books.Update(ctx, bookID, update)
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	if book == nil {
		return nil, services.ErrBookNotFound
	}
	s.invalidate(ctx, bookID)
	return book, nil
}

// DeleteBook removes a book and every review of it.
func (s *DefaultBookService) DeleteBook(ctx context.Context, id string) error {
	bookID, err := services.ParseID(id)
	if err != nil {
		return err
	}
	deleted, err := s.Books.Delete(ctx, bookID)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if !deleted {
		return services.ErrBookNotFound
	}
	n, err := s.Reviews.DeleteByBook(ctx, bookID)
	if err != nil {
		return fmt.Errorf("delete reviews of book %s: %w", id, err)
	}
	s.invalidate(ctx, bookID)
	s.Logger.Info("book deleted", zap.String("bookId", id), zap.Int64("reviewsDeleted", n))
	return nil
}

func (s *DefaultBookService) invalidate(ctx context.Context, id primitive.ObjectID) {
	if err := s.Cache.Invalidate(ctx, id); err != nil {
		s.Logger.Warn("book cache invalidation failed", zap.String("bookId", id.Hex()), zap.Error(err))
	}
}
