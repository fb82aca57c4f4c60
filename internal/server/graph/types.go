package graph

import (
	"context"
	"time"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/dmitrijs2005/microblog/internal/server/posts"
	"github.com/dmitrijs2005/microblog/internal/server/users"
)

// UserInput mirrors the UserInputData input type.
type UserInput struct {
	Email    string
	Name     string
	Password string
}

// PostInput mirrors the PostInputData input type.
type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// UserResolver shapes a stored user for the API. The password hash is not
// reachable from here: the schema has no field for it.
type UserResolver struct {
	u *users.User
	r *Resolver
}

func (ur *UserResolver) ID() graphql.ID {
	return graphql.ID(ur.u.ID.Hex())
}

func (ur *UserResolver) Email() string {
	return ur.u.Email
}

func (ur *UserResolver) Name() string {
	return ur.u.Name
}

func (ur *UserResolver) Status() string {
	return ur.u.Status
}

// Posts resolves the user's authored posts, newest first. Fetched lazily so
// queries that do not ask for the collection pay nothing.
func (ur *UserResolver) Posts(ctx context.Context) ([]*PostResolver, error) {
	list, err := ur.r.posts.ByIDs(ctx, ur.u.Posts)
	if err != nil {
		return nil, ur.r.clientError(ctx, err)
	}

	resolvers := make([]*PostResolver, 0, len(list))
	for _, p := range list {
		resolvers = append(resolvers, &PostResolver{p: p, r: ur.r})
	}
	return resolvers, nil
}

// PostResolver shapes a stored post for the API.
type PostResolver struct {
	p *posts.Post
	r *Resolver
}

func (pr *PostResolver) ID() graphql.ID {
	return graphql.ID(pr.p.ID.Hex())
}

func (pr *PostResolver) Title() string {
	return pr.p.Title
}

func (pr *PostResolver) Content() string {
	return pr.p.Content
}

func (pr *PostResolver) ImageURL() string {
	return pr.p.ImageURL
}

func (pr *PostResolver) Creator(ctx context.Context) (*UserResolver, error) {
	if pr.p.Creator != nil {
		return &UserResolver{u: pr.p.Creator, r: pr.r}, nil
	}

	u, err := pr.r.users.Get(ctx, pr.p.CreatorID.Hex())
	if err != nil {
		return nil, pr.r.clientError(ctx, err)
	}
	return &UserResolver{u: u, r: pr.r}, nil
}

func (pr *PostResolver) CreatedAt() string {
	return pr.p.CreatedAt.Format(time.RFC3339)
}

func (pr *PostResolver) UpdatedAt() string {
	return pr.p.UpdatedAt.Format(time.RFC3339)
}

// PostDataResolver is one page of the feed.
type PostDataResolver struct {
	feed *posts.Feed
	r    *Resolver
}

func (pd *PostDataResolver) Posts() []*PostResolver {
	resolvers := make([]*PostResolver, 0, len(pd.feed.Posts))
	for _, p := range pd.feed.Posts {
		resolvers = append(resolvers, &PostResolver{p: p, r: pd.r})
	}
	return resolvers
}

func (pd *PostDataResolver) TotalPosts() int32 {
	return int32(pd.feed.Total)
}

// AuthDataResolver is the login payload.
type AuthDataResolver struct {
	data *users.AuthData
}

func (ad *AuthDataResolver) Token() string {
	return ad.data.Token
}

func (ad *AuthDataResolver) UserID() string {
	return ad.data.UserID
}
