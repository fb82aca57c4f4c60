package posts

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmitrijs2005/microblog/internal/shared"
)

const collectionName = "posts"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(collectionName)}
}

func (r *MongoRepository) Create(ctx context.Context, post *Post) (*Post, error) {
	res, err := r.coll.InsertOne(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error inserting post: %w", err)
	}
	post.ID = res.InsertedID.(primitive.ObjectID)
	return post, nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	post := &Post{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching post: %w", err)
	}
	return post, nil
}

func (r *MongoRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]*Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching posts: %w", err)
	}
	defer cur.Close(ctx)

	var result []*Post
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding posts: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) Page(ctx context.Context, skip, limit int64) ([]*Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching page: %w", err)
	}
	defer cur.Close(ctx)

	var result []*Post
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding page: %w", err)
	}
	return result, nil
}

func (r *MongoRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("error counting posts: %w", err)
	}
	return n, nil
}

func (r *MongoRepository) Update(ctx context.Context, post *Post) error {
	update := bson.M{"$set": bson.M{
		"title":     post.Title,
		"content":   post.Content,
		"imageUrl":  post.ImageURL,
		"updatedAt": post.UpdatedAt,
	}}

	res, err := r.coll.UpdateByID(ctx, post.ID, update)
	if err != nil {
		return fmt.Errorf("error updating post: %w", err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	if res.DeletedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}
