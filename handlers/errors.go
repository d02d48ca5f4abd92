package handlers

import (
	"errors"
	"net/http"

	"bookreview/services"
	"bookreview/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps a service error to a status and writes it. fallback is
// the message used for unexpected failures.
func respondError(c *gin.Context, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.JSONError(c, http.StatusBadRequest, verr.Message, nil)
	case errors.Is(err, services.ErrInvalidID):
		utils.JSONError(c, http.StatusBadRequest, "Invalid id", nil)
	case errors.Is(err, services.ErrBookNotFound):
		utils.JSONError(c, http.StatusNotFound, "Book not found", nil)
	case errors.Is(err, services.ErrReviewNotFound):
		utils.JSONError(c, http.StatusNotFound, "Review not found", nil)
	case errors.Is(err, services.ErrDuplicateReview):
		utils.JSONError(c, http.StatusBadRequest, "You have already reviewed this book", nil)
	case errors.Is(err, services.ErrNotReviewOwner):
		utils.JSONError(c, http.StatusForbidden, "Not authorized to modify this review", nil)
	case errors.Is(err, services.ErrEmailTaken):
		utils.JSONError(c, http.StatusBadRequest, "User already exists", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", nil)
	default:
		getLogger(c).Error(fallback, zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, fallback, err)
	}
}

// bindJSON binds the body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}
