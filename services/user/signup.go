package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	userRepo "bookreview/database/repository/user"
	"bookreview/models"
	"bookreview/services"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Signup creates an account and logs it in.
func (s *DefaultUserService) Signup(ctx context.Context, req models.SignupRequest) (*AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := services.Validate(req); err != nil {
		return nil, err
	}

	available, err := s.Repo.IsUserAvailable(ctx, req.Username, req.Email)
	if err != nil {
		s.Logger.Error("Signup: availability check failed", zap.Error(err))
		return nil, fmt.Errorf("signup: %w", err)
	}
	if !available {
		return nil, services.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.Logger.Error("Signup: failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("signup: %w", err)
	}

	u := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hashed),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, userRepo.ErrDuplicate) {
			return nil, services.ErrEmailTaken
		}
		s.Logger.Error("Signup: failed to create user", zap.Error(err))
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.Logger.Info("user signed up", zap.String("userId", u.ID.Hex()))
	return s.issueToken(ctx, u)
}
