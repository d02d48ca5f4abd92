package user

import (
	"context"

	userRepo "bookreview/database/repository/user"
	"bookreview/models"
	"bookreview/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type UserService interface {
	Signup(ctx context.Context, req models.SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*AuthResponse, error)
	Logout(ctx context.Context, userID string) error
	// Authenticate returns the user id behind a live token.
	Authenticate(ctx context.Context, token string) (string, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo      userRepo.UserRepository
	Tokens    *utils.TokenManager
	AuthCache *redis.Client
	Logger    *zap.Logger
}

func NewUserService(repo userRepo.UserRepository, tokens *utils.TokenManager, authCache *redis.Client, logger *zap.Logger) *DefaultUserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultUserService{Repo: repo, Tokens: tokens, AuthCache: authCache, Logger: logger}
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID       string `json:"id"`
	Token    string `json:"token"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
}
