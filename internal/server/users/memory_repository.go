package users

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/microblog/internal/shared"
)

// MemoryRepository keeps users in a map. Used in tests and as a fallback
// wiring target, mirroring the mongo repository's error contract.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[primitive.ObjectID]*User)}
}

func (r *MemoryRepository) clone(u *User) *User {
	c := *u
	c.Posts = append([]primitive.ObjectID(nil), u.Posts...)
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, shared.ErrAlreadyExists
		}
	}

	user.ID = primitive.NewObjectID()
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	r.users[user.ID] = r.clone(user)
	return user, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return r.clone(u), nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return r.clone(u), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *MemoryRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			result = append(result, r.clone(u))
		}
	}
	return result, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.Status = status
	return nil
}

func (r *MemoryRepository) PushPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return shared.ErrNotFound
	}
	u.Posts = append(u.Posts, postID)
	return nil
}

func (r *MemoryRepository) PullPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return shared.ErrNotFound
	}
	filtered := u.Posts[:0]
	for _, id := range u.Posts {
		if id != postID {
			filtered = append(filtered, id)
		}
	}
	u.Posts = filtered
	return nil
}
