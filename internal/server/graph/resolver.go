package graph

import (
	"context"
	"errors"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/apperr"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/posts"
	"github.com/dmitrijs2005/microblog/internal/server/users"
)

// Resolver is the root of the GraphQL API. Every operation follows the same
// shape: authenticate, call the service, shape the response.
type Resolver struct {
	users  *users.Service
	posts  *posts.Service
	logger logging.Logger
}

func NewResolver(us *users.Service, ps *posts.Service, logger logging.Logger) *Resolver {
	return &Resolver{
		users:  us,
		posts:  ps,
		logger: logger.With("module", "graph"),
	}
}

// requireUser returns the identified user's id or a 401 error. The auth
// middleware never rejects requests itself, so every operation that needs
// identity guards here.
func requireUser(ctx context.Context) (string, error) {
	id, ok := auth.UserID(ctx)
	if !ok {
		return "", apperr.Unauthenticated("Not Authenticated")
	}
	return id, nil
}

// clientError passes typed errors through to the transport and hides
// anything unexpected behind a logged 500.
func (r *Resolver) clientError(ctx context.Context, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return ae
	}
	r.logger.Error(ctx, "unexpected resolver error", "error", err)
	return apperr.Internal("Internal Server Error")
}

func (r *Resolver) CreateUser(ctx context.Context, args struct{ UserInput *UserInput }) (*UserResolver, error) {
	if args.UserInput == nil {
		return nil, apperr.Validation([]string{"Invalid Email", "Invalid Password"})
	}

	user, err := r.users.Register(ctx, args.UserInput.Email, args.UserInput.Name, args.UserInput.Password)
	if err != nil {
		return nil, r.clientError(ctx, err)
	}
	return &UserResolver{u: user, r: r}, nil
}

func (r *Resolver) Login(ctx context.Context, args struct{ Email, Password string }) (*AuthDataResolver, error) {
	data, err := r.users.Login(ctx, args.Email, args.Password)
	if err != nil {
		return nil, r.clientError(ctx, err)
	}
	return &AuthDataResolver{data: data}, nil
}

func (r *Resolver) CreatePost(ctx context.Context, args struct{ PostInput *PostInput }) (*PostResolver, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if args.PostInput == nil {
		return nil, apperr.Validation([]string{"Invalid Title", "Invalid Content"})
	}

	post, err := r.posts.Create(ctx, userID, args.PostInput.Title, args.PostInput.Content, args.PostInput.ImageURL)
	if err != nil {
		return nil, r.clientError(ctx, err)
	}
	return &PostResolver{p: post, r: r}, nil
}

func (r *Resolver) Posts(ctx context.Context, args struct{ Page *int32 }) (*PostDataResolver, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	page := 1
	if args.Page != nil {
		page = int(*args.Page)
	}

	feed, err := r.posts.List(ctx, page)
	if err != nil {
		return nil, r.clientError(ctx, err)
	}
	return &PostDataResolver{feed: feed, r: r}, nil
}

func (r *Resolver) Post(ctx context.Context, args struct{ ID graphql.ID }) (*PostResolver, error) {
	if _, err := requireUser(ctx); err != nil {
		return nil, err
	}

	post, err := r.posts.Get(ctx, string(args.ID))
	if err != nil {
		return nil, r.clientError(ctx, err)
	}
	return &PostResolver{p: post, r: r}, nil
}

func (r *Resolver) UpdatePost(ctx context.Context, args struct {
	ID        graphql.ID
	PostInput *PostInput
}) (*PostResolver, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	if args.PostInput == nil {
		return nil, apperr.Validation([]string{"Invalid Title", "Invalid Content"})
	}

	post, err := r.posts.Update(ctx, userID, string(args.ID), args.PostInput.Title, args.PostInput.Content, args.PostInput.ImageURL)
	if err != nil {
		return nil, r.clientError(ctx, err)
	}
	return &PostResolver{p: post, r: r}, nil
}

func (r *Resolver) DeletePost(ctx context.Context, args struct{ ID graphql.ID }) (bool, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return false, err
	}

	ok, err := r.posts.Delete(ctx, userID, string(args.ID))
	if err != nil {
		return false, r.clientError(ctx, err)
	}
	return ok, nil
}

func (r *Resolver) User(ctx context.Context) (*UserResolver, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := r.users.Get(ctx, userID)
	if err != nil {
		return nil, r.clientError(ctx, err)
	}
	return &UserResolver{u: user, r: r}, nil
}

func (r *Resolver) UpdateStatus(ctx context.Context, args struct{ Status string }) (*UserResolver, error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := r.users.UpdateStatus(ctx, userID, args.Status)
	if err != nil {
		return nil, r.clientError(ctx, err)
	}
	return &UserResolver{u: user, r: r}, nil
}
