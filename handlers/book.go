package handlers

import (
	"net/http"

	"bookreview/models"
	"bookreview/services/book"
	"bookreview/services/review"
	"bookreview/utils"

	"github.com/gin-gonic/gin"
)

// BookHandler serves the /api/books endpoints.
type BookHandler struct {
	Books           book.BookService
	Reviews         review.ReviewService
	DefaultPageSize int
	MaxPageSize     int
}

func NewBookHandler(books book.BookService, reviews review.ReviewService, defaultPageSize, maxPageSize int) *BookHandler {
	return &BookHandler{
		Books:           books,
		Reviews:         reviews,
		DefaultPageSize: defaultPageSize,
		MaxPageSize:     maxPageSize,
	}
}

func (h *BookHandler) CreateBookHandler(c *gin.Context) {
	var input models.BookInput
	if !bindJSON(c, &input) {
		return
	}
	created, err := h.Books.CreateBook(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, "Error creating book")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Book created successfully",
		"book":    created,
	})
}

// ListBooksHandler lists books, newest first, filtered by ?genre and ?author.
func (h *BookHandler) ListBooksHandler(c *gin.Context) {
	page, limit := utils.PageParams(c, h.DefaultPageSize, h.MaxPageSize)
	filter := models.BookFilter{Genre: c.Query("genre"), Author: c.Query("author")}

	books, pagination, err := h.Books.ListBooks(c.Request.Context(), filter, page, limit)
	if err != nil {
		respondError(c, err, "Error fetching books")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"books":      books,
		"pagination": pagination,
	})
}

func (h *BookHandler) SearchBooksHandler(c *gin.Context) {
	books, err := h.Books.SearchBooks(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err, "Error searching books")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"books":   books,
	})
}

// GetBookHandler returns a book with one page of its reviews.
func (h *BookHandler) GetBookHandler(c *gin.Context) {
	page, limit := utils.PageParams(c, h.DefaultPageSize, h.MaxPageSize)
	details, err := h.Books.GetBook(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		respondError(c, err, "Error fetching book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"book":       details.Book,
		"reviews":    details.Reviews,
		"pagination": details.Pagination,
	})
}

func (h *BookHandler) UpdateBookHandler(c *gin.Context) {
	var update models.BookUpdate
	if !bindJSON(c, &update) {
		return
	}
	updated, err := h.Books.UpdateBook(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err, "Error updating book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Book updated successfully",
		"book":    updated,
	})
}

func (h *BookHandler) DeleteBookHandler(c *gin.Context) {
	if err := h.Books.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Error deleting book")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Book deleted successfully",
	})
}
