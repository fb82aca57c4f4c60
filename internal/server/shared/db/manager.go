// Package db wires the repository implementations to a concrete store and
// exposes the transactional boundary used by multi-document writes.
package db

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/server/posts"
	"github.com/dmitrijs2005/microblog/internal/server/users"
)

type Manager interface {
	Users() users.Repository
	Posts() posts.Repository

	// WithTransaction runs fn atomically where the backing store supports
	// it; stores without multi-document transactions run fn directly.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// EnsureIndexes creates the uniqueness indexes the data model relies on.
	EnsureIndexes(ctx context.Context) error

	Close(ctx context.Context) error
}
