package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bookreview/models"
	"bookreview/services"
	"bookreview/utils"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies credentials and issues a fresh token. Any token issued
// earlier for the same user stops being accepted.
func (s *DefaultUserService) Login(ctx context.Context, req models.LoginRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	projection := bson.M{"_id": 1, "email": 1, "username": 1, "passwordHash": 1}
	u, err := s.Repo.GetByEmailWithProjection(ctx, email, projection)
	if err != nil {
		s.Logger.Error("Login: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("login: %w", err)
	}
	if u == nil {
		return nil, services.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, services.ErrInvalidCredentials
	}
	return s.issueToken(ctx, u)
}

// Logout revokes the user's current token.
func (s *DefaultUserService) Logout(ctx context.Context, userID string) error {
	if err := s.AuthCache.Del(ctx, utils.AuthCachePrefix+userID).Err(); err != nil {
		s.Logger.Error("Logout: failed to clear auth cache", zap.String("userId", userID), zap.Error(err))
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Authenticate checks the token signature and that it is still the user's
// current token. If redis is unreachable a validly signed token is accepted.
func (s *DefaultUserService) Authenticate(ctx context.Context, token string) (string, error) {
	userID, err := s.Tokens.ExtractIDFromToken(token)
	if err != nil {
		return "", utils.ErrInvalidToken
	}

	cached, err := s.AuthCache.Get(ctx, utils.AuthCachePrefix+userID).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", services.ErrSessionRevoked
	case err != nil:
		s.Logger.Warn("auth cache unavailable, trusting token signature", zap.Error(err))
		return userID, nil
	case cached != utils.HashToken(token):
		return "", services.ErrSessionRevoked
	}
	return userID, nil
}

func (s *DefaultUserService) issueToken(ctx context.Context, u *models.User) (*AuthResponse, error) {
	id := u.ID.Hex()
	token, err := s.Tokens.GenerateToken(id, u.Email)
	if err != nil {
		s.Logger.Error("failed to generate auth token", zap.Error(err))
		return nil, fmt.Errorf("generate token: %w", err)
	}
	if err := s.AuthCache.Set(ctx, utils.AuthCachePrefix+id, utils.HashToken(token), s.Tokens.TTL()).Err(); err != nil {
		s.Logger.Error("failed to store token hash", zap.String("userId", id), zap.Error(err))
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &AuthResponse{
		ID:       id,
		Token:    token,
		Username: u.Username,
		Email:    u.Email,
	}, nil
}
