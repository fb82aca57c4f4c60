package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/apperr"
	"github.com/dmitrijs2005/microblog/internal/server/users"
	"github.com/dmitrijs2005/microblog/internal/server/validate"
	"github.com/dmitrijs2005/microblog/internal/shared"
)

// Transactor runs fn atomically where the backing store supports it.
// db.Manager implements this.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ImageRemover deletes a stored image by path. upload.Storage implements
// this; removal failures are logged and swallowed.
type ImageRemover interface {
	Remove(ctx context.Context, path string) error
}

// Feed is one page of the newest-first post listing. Total always reflects
// the full unfiltered count.
type Feed struct {
	Posts []*Post
	Total int64
}

type Service struct {
	repo     Repository
	users    users.Repository
	tx       Transactor
	images   ImageRemover
	pageSize int64
	logger   logging.Logger
}

func NewService(repo Repository, userRepo users.Repository, tx Transactor, images ImageRemover, pageSize int64, logger logging.Logger) *Service {
	return &Service{
		repo:     repo,
		users:    userRepo,
		tx:       tx,
		images:   images,
		pageSize: pageSize,
		logger:   logger.With("module", "posts"),
	}
}

// Create validates the input and stores a post owned by the given user.
// The post insert and the owner's posts-list update run in one transaction.
func (s *Service) Create(ctx context.Context, creatorIDHex, title, content, imageURL string) (*Post, error) {

	if msgs := validate.Struct(validate.PostInput{Title: title, Content: content}); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	creatorID, err := primitive.ObjectIDFromHex(creatorIDHex)
	if err != nil {
		return nil, apperr.NotFound("User Not Found")
	}

	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, apperr.NotFound("User Not Found")
		}
		return nil, fmt.Errorf("error fetching creator: %w", err)
	}

	now := time.Now().UTC()
	post := &Post{
		Title:     title,
		Content:   content,
		ImageURL:  imageURL,
		CreatorID: creatorID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.Create(ctx, post); err != nil {
			return err
		}
		return s.users.PushPost(ctx, creatorID, post.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	post.Creator = creator
	s.logger.Info(ctx, "post created", "postId", post.ID.Hex(), "userId", creatorIDHex)
	return post, nil
}

// List returns one page of the newest-first feed with creators populated.
// Pages are 1-based; anything below 1 is treated as the first page.
func (s *Service) List(ctx context.Context, page int) (*Feed, error) {

	if page < 1 {
		page = 1
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting posts: %w", err)
	}

	skip := int64(page-1) * s.pageSize
	posts, err := s.repo.Page(ctx, skip, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("error fetching page: %w", err)
	}

	if err := s.populateCreators(ctx, posts); err != nil {
		return nil, err
	}

	return &Feed{Posts: posts, Total: total}, nil
}

// Get returns a single post with its creator populated.
func (s *Service) Get(ctx context.Context, idHex string) (*Post, error) {

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NotFound("No Post Found")
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, apperr.NotFound("No Post Found")
		}
		return nil, fmt.Errorf("error fetching post: %w", err)
	}

	if err := s.populateCreators(ctx, []*Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// Update applies new field values to a post owned by the given user.
// The literal string "undefined" for imageURL means "keep the current image"
// (the frontend sends it when the image was not replaced).
func (s *Service) Update(ctx context.Context, userIDHex, idHex, title, content, imageURL string) (*Post, error) {

	post, err := s.Get(ctx, idHex)
	if err != nil {
		return nil, err
	}

	if post.CreatorID.Hex() != userIDHex {
		return nil, apperr.Forbidden("Not Authorized")
	}

	if msgs := validate.Struct(validate.PostInput{Title: title, Content: content}); len(msgs) > 0 {
		return nil, apperr.Validation(msgs)
	}

	post.Title = title
	post.Content = content
	if imageURL != "" && imageURL != "undefined" {
		post.ImageURL = imageURL
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, post); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, apperr.NotFound("No Post Found")
		}
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	return post, nil
}

// Delete removes a post owned by the given user, drops the back-reference
// from the owner's posts list in the same transaction and then removes the
// stored image best-effort.
func (s *Service) Delete(ctx context.Context, userIDHex, idHex string) (bool, error) {

	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return false, apperr.NotFound("No Post Found")
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return false, apperr.NotFound("No Post Found")
		}
		return false, fmt.Errorf("error fetching post: %w", err)
	}

	if post.CreatorID.Hex() != userIDHex {
		return false, apperr.Forbidden("Not Authorized")
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, id); err != nil {
			return err
		}
		return s.users.PullPost(ctx, post.CreatorID, id)
	})
	if err != nil {
		return false, fmt.Errorf("error deleting post: %w", err)
	}

	if post.ImageURL != "" {
		if err := s.images.Remove(ctx, post.ImageURL); err != nil {
			s.logger.Warn(ctx, "image cleanup failed", "path", post.ImageURL, "error", err)
		}
	}

	s.logger.Info(ctx, "post deleted", "postId", idHex, "userId", userIDHex)
	return true, nil
}

// ByIDs returns the given posts newest first with creators populated.
// Used when resolving a user's posts collection.
func (s *Service) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Post, error) {
	posts, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("error fetching posts: %w", err)
	}
	if err := s.populateCreators(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *Service) populateCreators(ctx context.Context, posts []*Post) error {
	if len(posts) == 0 {
		return nil
	}

	seen := make(map[primitive.ObjectID]bool, len(posts))
	ids := make([]primitive.ObjectID, 0, len(posts))
	for _, p := range posts {
		if !seen[p.CreatorID] {
			seen[p.CreatorID] = true
			ids = append(ids, p.CreatorID)
		}
	}

	creators, err := s.users.GetMany(ctx, ids)
	if err != nil {
		return fmt.Errorf("error fetching creators: %w", err)
	}

	byID := make(map[primitive.ObjectID]*users.User, len(creators))
	for _, u := range creators {
		byID[u.ID] = u
	}
	for _, p := range posts {
		p.Creator = byID[p.CreatorID]
	}
	return nil
}
