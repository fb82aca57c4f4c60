package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dmitrijs2005/microblog/internal/server/posts"
	"github.com/dmitrijs2005/microblog/internal/server/users"
)

type MongoManager struct {
	client *mongo.Client
	db     *mongo.Database
	users  *users.MongoRepository
	posts  *posts.MongoRepository
}

func NewMongoManager(ctx context.Context, uri, dbName string) (*MongoManager, error) {

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}

	db := client.Database(dbName)

	return &MongoManager{
		client: client,
		db:     db,
		users:  users.NewMongoRepository(db),
		posts:  posts.NewMongoRepository(db),
	}, nil
}

func (m *MongoManager) Users() users.Repository {
	return m.users
}

func (m *MongoManager) Posts() posts.Repository {
	return m.posts
}

// WithTransaction runs fn inside a mongo session transaction. Standalone
// deployments do not support transactions; on that topology the callback
// runs as plain sequential writes, matching the store's native guarantees.
func (m *MongoManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {

	session, err := m.client.StartSession()
	if err != nil {
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && transactionsUnsupported(err) {
		return fn(ctx)
	}
	return err
}

// transactionsUnsupported matches the server error a standalone mongod
// returns when a transaction number is sent to it.
func transactionsUnsupported(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		// 20 == IllegalOperation
		return ce.Code == 20
	}
	return false
}

func (m *MongoManager) EnsureIndexes(ctx context.Context) error {
	_, err := m.db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error creating email index: %w", err)
	}

	_, err = m.db.Collection("posts").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("error creating createdAt index: %w", err)
	}
	return nil
}

func (m *MongoManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
