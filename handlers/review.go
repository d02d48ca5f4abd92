package handlers

import (
	"net/http"

	"bookreview/models"
	"bookreview/services/review"
	"bookreview/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReviewHandler serves review submission and the /api/reviews endpoints.
type ReviewHandler struct {
	Reviews review.ReviewService
}

func NewReviewHandler(reviews review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews}
}

// AddReviewHandler handles POST /api/books/:id/reviews.
func (h *ReviewHandler) AddReviewHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authorized", nil)
		return
	}
	var input models.ReviewInput
	if !bindJSON(c, &input) {
		return
	}

	created, err := h.Reviews.AddReview(c.Request.Context(), c.Param("id"), userID, input)
	if err != nil {
		respondError(c, err, "Error adding review")
		return
	}
	getLogger(c).Info("Review added", zap.String("reviewId", created.ID.Hex()))
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Review added successfully",
		"review":  created,
	})
}

func (h *ReviewHandler) UpdateReviewHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authorized", nil)
		return
	}
	var update models.ReviewUpdate
	if !bindJSON(c, &update) {
		return
	}

	updated, err := h.Reviews.UpdateReview(c.Request.Context(), c.Param("id"), userID, update)
	if err != nil {
		respondError(c, err, "Error updating review")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review updated successfully",
		"review":  updated,
	})
}

func (h *ReviewHandler) DeleteReviewHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authorized", nil)
		return
	}
	if err := h.Reviews.DeleteReview(c.Request.Context(), c.Param("id"), userID); err != nil {
		respondError(c, err, "Error deleting review")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Review deleted successfully",
	})
}
