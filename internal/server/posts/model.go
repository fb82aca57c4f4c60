package posts

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dmitrijs2005/microblog/internal/server/users"
)

// Post is the stored post document. Creator is populated from the users
// collection when shaping responses and is never persisted with the post.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	ImageURL  string             `bson:"imageUrl"`
	CreatorID primitive.ObjectID `bson:"creator"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`

	Creator *users.User `bson:"-"`
}
