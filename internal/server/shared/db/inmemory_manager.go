package db

import (
	"context"

	"github.com/dmitrijs2005/microblog/internal/server/posts"
	"github.com/dmitrijs2005/microblog/internal/server/users"
)

// InMemoryManager backs the repositories with process-local maps. There is
// no transactional isolation; the callback runs directly.
type InMemoryManager struct {
	users *users.MemoryRepository
	posts *posts.MemoryRepository
}

func NewInMemoryManager() *InMemoryManager {
	return &InMemoryManager{
		users: users.NewMemoryRepository(),
		posts: posts.NewMemoryRepository(),
	}
}

func (m *InMemoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryManager) Posts() posts.Repository {
	return m.posts
}

func (m *InMemoryManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *InMemoryManager) EnsureIndexes(ctx context.Context) error {
	return nil
}

func (m *InMemoryManager) Close(ctx context.Context) error {
	return nil
}
