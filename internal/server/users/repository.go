package users

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository stores account documents. Implementations return
// shared.ErrNotFound for absent users and shared.ErrAlreadyExists when the
// email uniqueness constraint is violated.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*User, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	PushPost(ctx context.Context, userID, postID primitive.ObjectID) error
	PullPost(ctx context.Context, userID, postID primitive.ObjectID) error
}
