package book

import (
	"context"

	bookRepo "bookreview/database/repository/book"
	reviewRepo "bookreview/database/repository/review"
	"bookreview/models"
	"bookreview/services/cache"

	"go.uber.org/zap"
)

type BookService interface {
	CreateBook(ctx context.Context, input models.BookInput) (*models.Book, error)
	ListBooks(ctx context.Context, filter models.BookFilter, page, limit int) ([]models.Book, models.Pagination, error)
	GetBook(ctx context.Context, id string, page, limit int) (*models.BookDetails, error)
	SearchBooks(ctx context.Context, query string) ([]models.Book, error)
	UpdateBook(ctx context.Context, id string, update models.BookUpdate) (*models.Book, error)
	DeleteBook(ctx context.Context, id string) error
}

// DefaultBookService is the production implementation.
type DefaultBookService struct {
	Books       bookRepo.BookRepository
	Reviews     reviewRepo.ReviewRepository
	Cache       cache.BookCache
	SearchLimit int
	Logger      *zap.Logger
}

func NewBookService(books bookRepo.BookRepository, reviews reviewRepo.ReviewRepository, bookCache cache.BookCache, searchLimit int, logger *zap.Logger) *DefaultBookService {
	if bookCache == nil {
		bookCache = cache.NopBookCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if searchLimit <= 0 {
		searchLimit = 10
	}
	return &DefaultBookService{
		Books:       books,
		Reviews:     reviews,
		Cache:       bookCache,
		SearchLimit: searchLimit,
		Logger:      logger,
	}
}
