package posts

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/microblog/internal/shared"
)

// MemoryRepository keeps posts in a map, mirroring the mongo repository's
// error contract. Used in tests.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts map[primitive.ObjectID]*Post
	seq   map[primitive.ObjectID]int
	next  int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts: make(map[primitive.ObjectID]*Post),
		seq:   make(map[primitive.ObjectID]int),
	}
}

func clone(p *Post) *Post {
	c := *p
	c.Creator = nil
	return &c
}

// sortedNewestFirst returns all posts ordered by createdAt descending,
// breaking wall-clock ties by insertion order (newest insert first).
func (r *MemoryRepository) sortedNewestFirst() []*Post {
	all := make([]*Post, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, clone(p))
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return r.seq[all[i].ID] > r.seq[all[j].ID]
	})
	return all
}

func (r *MemoryRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = primitive.NewObjectID()
	r.posts[post.ID] = clone(post)
	r.next++
	r.seq[post.ID] = r.next
	return post, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return clone(p), nil
}

func (r *MemoryRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	var result []*Post
	for _, p := range r.sortedNewestFirst() {
		if want[p.ID] {
			result = append(result, p)
		}
	}
	return result, nil
}

func (r *MemoryRepository) Page(ctx context.Context, skip, limit int64) ([]*Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.sortedNewestFirst()
	if skip >= int64(len(all)) {
		return nil, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}

func (r *MemoryRepository) Update(ctx context.Context, post *Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[post.ID]; !ok {
		return shared.ErrNotFound
	}
	r.posts[post.ID] = clone(post)
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.posts, id)
	delete(r.seq, id)
	return nil
}
