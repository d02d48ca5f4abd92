package handlers

import (
	"net/http"

	"bookreview/models"
	"bookreview/services/user"
	"bookreview/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler serves signup, login and logout.
type AuthHandler struct {
	Users user.UserService
}

func NewAuthHandler(users user.UserService) *AuthHandler {
	return &AuthHandler{Users: users}
}

func (h *AuthHandler) SignupHandler(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Users.Signup(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error creating user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    resp,
	})
}

func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Users.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err, "Error logging in")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    resp,
	})
}

func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Not authorized", nil)
		return
	}
	if err := h.Users.Logout(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Error logging out")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out",
	})
}
