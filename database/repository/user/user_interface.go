package userRepo

import (
	"context"

	"bookreview/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID, or nil if absent.
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// GetByEmailWithProjection retrieves a user by email with a projection, or nil if absent.
	GetByEmailWithProjection(ctx context.Context, email string, projection bson.M) (*models.User, error)
	// IsUserAvailable reports whether neither the username nor the email is taken.
	IsUserAvailable(ctx context.Context, username, email string) (bool, error)
	EnsureIndexes(ctx context.Context) error
}
