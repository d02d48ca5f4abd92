package memrepo

import (
	"context"

	userRepo "bookreview/database/repository/user"
	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepo struct{ s *Store }

func (r *UserRepo) EnsureIndexes(context.Context) error { return nil }

func (r *UserRepo) Create(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.err(); err != nil {
		return err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return userRepo.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	user, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	user.PasswordHash = ""
	return &user, nil
}

// GetByEmailWithProjection ignores the projection and returns the full user.
func (r *UserRepo) GetByEmailWithProjection(_ context.Context, email string, _ bson.M) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) IsUserAvailable(_ context.Context, username, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if err := r.s.err(); err != nil {
		return false, err
	}
	for _, u := range r.s.users {
		if u.Email == email || u.Username == username {
			return false, nil
		}
	}
	return true, nil
}
