package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/config"
	"github.com/dmitrijs2005/microblog/internal/server/posts"
	"github.com/dmitrijs2005/microblog/internal/server/shared/db"
	"github.com/dmitrijs2005/microblog/internal/server/users"
)

type fakeImages struct {
	removed []string
}

func (f *fakeImages) Remove(ctx context.Context, path string) error {
	f.removed = append(f.removed, path)
	return nil
}

type testAPI struct {
	schema *graphql.Schema
	users  *users.Service
	images *fakeImages
	secret []byte
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.JWTSecret = "test-secret"
	cfg.BcryptCost = bcrypt.MinCost

	manager := db.NewInMemoryManager()
	images := &fakeImages{}
	logger := logging.NopLogger{}

	us := users.NewService(manager.Users(), cfg, logger)
	ps := posts.NewService(manager.Posts(), manager.Users(), manager, images, cfg.PageSize, logger)

	schema, err := graphql.ParseSchema(Schema, NewResolver(us, ps, logger))
	require.NoError(t, err)

	return &testAPI{schema: schema, users: us, images: images, secret: []byte(cfg.JWTSecret)}
}

// exec runs a query and decodes the data payload into out (if non-nil).
func (a *testAPI) exec(t *testing.T, ctx context.Context, query string, out interface{}) *graphql.Response {
	t.Helper()
	resp := a.schema.Exec(ctx, query, "", nil)
	if out != nil {
		require.Empty(t, resp.Errors, "unexpected errors: %+v", resp.Errors)
		require.NoError(t, json.Unmarshal(resp.Data, out))
	}
	return resp
}

func (a *testAPI) registerUser(t *testing.T, email string) (id string, authedCtx context.Context) {
	t.Helper()

	var out struct {
		CreateUser struct {
			ID string `json:"_id"`
		} `json:"createUser"`
	}
	q := fmt.Sprintf(`mutation {
		createUser(userInput: {email: %q, name: "Tester", password: "secret"}) { _id }
	}`, email)
	a.exec(t, context.Background(), q, &out)

	return out.CreateUser.ID, auth.WithUserID(context.Background(), out.CreateUser.ID)
}

func (a *testAPI) createPost(t *testing.T, ctx context.Context, title string) string {
	t.Helper()

	var out struct {
		CreatePost struct {
			ID string `json:"_id"`
		} `json:"createPost"`
	}
	q := fmt.Sprintf(`mutation {
		createPost(postInput: {title: %q, content: "content of %s", imageUrl: "images/x.png"}) { _id }
	}`, title, title)
	a.exec(t, ctx, q, &out)
	return out.CreatePost.ID
}

func statusOf(t *testing.T, resp *graphql.Response) int {
	t.Helper()
	require.NotEmpty(t, resp.Errors)
	require.NotNil(t, resp.Errors[0].Extensions, "error carries no extensions: %v", resp.Errors[0])
	status, ok := resp.Errors[0].Extensions["status"].(int)
	require.True(t, ok, "status extension missing or not an int: %#v", resp.Errors[0].Extensions)
	return status
}

func TestCreateUser_ShapesResponseWithoutPassword(t *testing.T) {
	api := newTestAPI(t)

	var out struct {
		CreateUser struct {
			ID     string `json:"_id"`
			Email  string `json:"email"`
			Name   string `json:"name"`
			Status string `json:"status"`
		} `json:"createUser"`
	}
	api.exec(t, context.Background(), `mutation {
		createUser(userInput: {email: "bob@example.com", name: "Bob", password: "secret"}) {
			_id email name status
		}
	}`, &out)

	assert.NotEmpty(t, out.CreateUser.ID)
	assert.Equal(t, "bob@example.com", out.CreateUser.Email)
	assert.Equal(t, "Bob", out.CreateUser.Name)
	assert.Equal(t, users.DefaultStatus, out.CreateUser.Status)

	// the schema has no password field at all
	resp := api.schema.Exec(context.Background(), `mutation {
		createUser(userInput: {email: "eve@example.com", name: "Eve", password: "secret"}) { password }
	}`, "", nil)
	assert.NotEmpty(t, resp.Errors)
}

func TestCreateUser_ValidationEnvelope(t *testing.T) {
	api := newTestAPI(t)

	resp := api.schema.Exec(context.Background(), `mutation {
		createUser(userInput: {email: "nope", name: "X", password: "ab"}) { _id }
	}`, "", nil)

	assert.Equal(t, 422, statusOf(t, resp))
	assert.Equal(t, "Invalid Input", resp.Errors[0].Message)
	data, ok := resp.Errors[0].Extensions["data"].([]string)
	require.True(t, ok, "data extension: %#v", resp.Errors[0].Extensions)
	assert.ElementsMatch(t, []string{"Invalid Email", "Invalid Password"}, data)
}

func TestCreateUser_DuplicateEmailConflict(t *testing.T) {
	api := newTestAPI(t)
	api.registerUser(t, "bob@example.com")

	resp := api.schema.Exec(context.Background(), `mutation {
		createUser(userInput: {email: "bob@example.com", name: "Bob2", password: "secret"}) { _id }
	}`, "", nil)

	assert.Equal(t, 409, statusOf(t, resp))
	assert.Equal(t, "Email Already Exists", resp.Errors[0].Message)
}

func TestLogin_ReturnsDecodableToken(t *testing.T) {
	api := newTestAPI(t)
	id, _ := api.registerUser(t, "bob@example.com")

	var out struct {
		Login struct {
			Token  string `json:"token"`
			UserID string `json:"userId"`
		} `json:"login"`
	}
	api.exec(t, context.Background(), `{
		login(email: "bob@example.com", password: "secret") { token userId }
	}`, &out)

	assert.Equal(t, id, out.Login.UserID)
	claims, err := auth.ParseToken(out.Login.Token, api.secret)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
}

func TestLogin_WrongCredentials(t *testing.T) {
	api := newTestAPI(t)
	api.registerUser(t, "bob@example.com")

	respWrongPass := api.schema.Exec(context.Background(),
		`{ login(email: "bob@example.com", password: "nope!") { token userId } }`, "", nil)
	respUnknown := api.schema.Exec(context.Background(),
		`{ login(email: "ghost@example.com", password: "secret") { token userId } }`, "", nil)

	assert.Equal(t, 401, statusOf(t, respWrongPass))
	assert.Equal(t, 401, statusOf(t, respUnknown))
	assert.Equal(t, respWrongPass.Errors[0].Message, respUnknown.Errors[0].Message)
}

func TestAuthRequiredOperations_RejectAnonymous(t *testing.T) {
	api := newTestAPI(t)

	queries := []string{
		`mutation { createPost(postInput: {title: "t", content: "content", imageUrl: ""}) { _id } }`,
		`{ posts { totalPosts } }`,
		`{ post(id: "64b000000000000000000000") { _id } }`,
		`{ user { _id } }`,
		`mutation { updatePost(id: "64b000000000000000000000", postInput: {title: "t", content: "content", imageUrl: ""}) { _id } }`,
		`mutation { deletePost(id: "64b000000000000000000000") }`,
		`mutation { updateStatus(status: "hi") { _id } }`,
	}

	for _, q := range queries {
		resp := api.schema.Exec(context.Background(), q, "", nil)
		assert.Equal(t, 401, statusOf(t, resp), "query %s", q)
		assert.Equal(t, "Not Authenticated", resp.Errors[0].Message)
	}
}

func TestCreatePostAndFetch_RoundTrip(t *testing.T) {
	api := newTestAPI(t)
	id, ctx := api.registerUser(t, "bob@example.com")
	postID := api.createPost(t, ctx, "First")

	var out struct {
		Post struct {
			ID        string `json:"_id"`
			Title     string `json:"title"`
			Content   string `json:"content"`
			ImageURL  string `json:"imageUrl"`
			CreatedAt string `json:"createdAt"`
			Creator   struct {
				ID    string `json:"_id"`
				Email string `json:"email"`
			} `json:"creator"`
		} `json:"post"`
	}
	api.exec(t, ctx, fmt.Sprintf(`{ post(id: %q) {
		_id title content imageUrl createdAt creator { _id email }
	} }`, postID), &out)

	assert.Equal(t, postID, out.Post.ID)
	assert.Equal(t, "First", out.Post.Title)
	assert.Equal(t, "content of First", out.Post.Content)
	assert.Equal(t, "images/x.png", out.Post.ImageURL)
	assert.NotEmpty(t, out.Post.CreatedAt)
	assert.Equal(t, id, out.Post.Creator.ID)
	assert.Equal(t, "bob@example.com", out.Post.Creator.Email)
}

func TestPosts_Pagination(t *testing.T) {
	api := newTestAPI(t)
	_, ctx := api.registerUser(t, "bob@example.com")

	for _, title := range []string{"one", "two", "three", "four", "five"} {
		api.createPost(t, ctx, title)
	}

	var out struct {
		Posts struct {
			Posts []struct {
				Title string `json:"title"`
			} `json:"posts"`
			TotalPosts int32 `json:"totalPosts"`
		} `json:"posts"`
	}
	api.exec(t, ctx, `{ posts(page: 1) { posts { title } totalPosts } }`, &out)
	assert.Equal(t, int32(5), out.Posts.TotalPosts)
	require.Len(t, out.Posts.Posts, 2)
	assert.Equal(t, "five", out.Posts.Posts[0].Title)
	assert.Equal(t, "four", out.Posts.Posts[1].Title)

	api.exec(t, ctx, `{ posts(page: 3) { posts { title } totalPosts } }`, &out)
	assert.Equal(t, int32(5), out.Posts.TotalPosts)
	require.Len(t, out.Posts.Posts, 1)
	assert.Equal(t, "one", out.Posts.Posts[0].Title)

	// page argument is optional and defaults to the first page
	api.exec(t, ctx, `{ posts { posts { title } totalPosts } }`, &out)
	require.Len(t, out.Posts.Posts, 2)
	assert.Equal(t, "five", out.Posts.Posts[0].Title)
}

func TestUpdatePost_OwnershipEnforced(t *testing.T) {
	api := newTestAPI(t)
	_, ownerCtx := api.registerUser(t, "owner@example.com")
	_, intruderCtx := api.registerUser(t, "intruder@example.com")
	postID := api.createPost(t, ownerCtx, "Original")

	resp := api.schema.Exec(intruderCtx, fmt.Sprintf(`mutation {
		updatePost(id: %q, postInput: {title: "Hacked", content: "hacked content", imageUrl: ""}) { _id }
	}`, postID), "", nil)
	assert.Equal(t, 403, statusOf(t, resp))

	var out struct {
		Post struct {
			Title string `json:"title"`
		} `json:"post"`
	}
	api.exec(t, ownerCtx, fmt.Sprintf(`{ post(id: %q) { title } }`, postID), &out)
	assert.Equal(t, "Original", out.Post.Title)
}

func TestDeletePost_FullCleanup(t *testing.T) {
	api := newTestAPI(t)
	_, ctx := api.registerUser(t, "bob@example.com")
	postID := api.createPost(t, ctx, "Doomed")

	var out struct {
		DeletePost bool `json:"deletePost"`
	}
	api.exec(t, ctx, fmt.Sprintf(`mutation { deletePost(id: %q) }`, postID), &out)
	assert.True(t, out.DeletePost)

	// gone from the store
	resp := api.schema.Exec(ctx, fmt.Sprintf(`{ post(id: %q) { _id } }`, postID), "", nil)
	assert.Equal(t, 404, statusOf(t, resp))
	assert.Equal(t, "No Post Found", resp.Errors[0].Message)

	// gone from the owner's posts collection
	var userOut struct {
		User struct {
			Posts []struct {
				ID string `json:"_id"`
			} `json:"posts"`
		} `json:"user"`
	}
	api.exec(t, ctx, `{ user { posts { _id } } }`, &userOut)
	assert.Empty(t, userOut.User.Posts)

	// stored image removed
	assert.Equal(t, []string{"images/x.png"}, api.images.removed)
}

func TestUpdateStatus(t *testing.T) {
	api := newTestAPI(t)
	_, ctx := api.registerUser(t, "bob@example.com")

	var out struct {
		UpdateStatus struct {
			Status string `json:"status"`
		} `json:"updateStatus"`
	}
	api.exec(t, ctx, `mutation { updateStatus(status: "busy writing Go") { status } }`, &out)
	assert.Equal(t, "busy writing Go", out.UpdateStatus.Status)

	var userOut struct {
		User struct {
			Status string `json:"status"`
		} `json:"user"`
	}
	api.exec(t, ctx, `{ user { status } }`, &userOut)
	assert.Equal(t, "busy writing Go", userOut.User.Status)
}
