package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Auth endpoints
	SignupHandler gin.HandlerFunc
	LoginHandler  gin.HandlerFunc
	LogoutHandler gin.HandlerFunc

	// Book endpoints
	ListBooksHandler   gin.HandlerFunc
	SearchBooksHandler gin.HandlerFunc
	GetBookHandler     gin.HandlerFunc
	CreateBookHandler  gin.HandlerFunc
	UpdateBookHandler  gin.HandlerFunc
	DeleteBookHandler  gin.HandlerFunc

	// Review endpoints
	AddReviewHandler    gin.HandlerFunc
	UpdateReviewHandler gin.HandlerFunc
	DeleteReviewHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc

	// AuthMiddleware guards every write endpoint.
	AuthMiddleware gin.HandlerFunc
}

// NewHandlerBundle wires handler methods into the bundle.
func NewHandlerBundle(auth *AuthHandler, books *BookHandler, reviews *ReviewHandler, health gin.HandlerFunc, authMiddleware gin.HandlerFunc) *HandlerBundle {
	return &HandlerBundle{
		SignupHandler: auth.SignupHandler,
		LoginHandler:  auth.LoginHandler,
		LogoutHandler: auth.LogoutHandler,

		ListBooksHandler:   books.ListBooksHandler,
		SearchBooksHandler: books.SearchBooksHandler,
		GetBookHandler:     books.GetBookHandler,
		CreateBookHandler:  books.CreateBookHandler,
		UpdateBookHandler:  books.UpdateBookHandler,
		DeleteBookHandler:  books.DeleteBookHandler,

		AddReviewHandler:    reviews.AddReviewHandler,
		UpdateReviewHandler: reviews.UpdateReviewHandler,
		DeleteReviewHandler: reviews.DeleteReviewHandler,

		HealthHandler:  health,
		AuthMiddleware: authMiddleware,
	}
}
