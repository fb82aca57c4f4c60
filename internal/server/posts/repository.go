package posts

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository stores post documents. Implementations return shared.ErrNotFound
// for absent posts.
type Repository interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Post, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*Post, error)
	// Page returns one newest-first slice of all posts.
	Page(ctx context.Context, skip, limit int64) ([]*Post, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
