package users

import "go.mongodb.org/mongo-driver/bson/primitive"

// DefaultStatus is assigned to freshly registered accounts.
const DefaultStatus = "I am new!"

// User is the stored account document. Password holds the bcrypt hash and
// must never leave the service layer in a response.
type User struct {
	ID       primitive.ObjectID   `bson:"_id,omitempty"`
	Email    string               `bson:"email"`
	Name     string               `bson:"name"`
	Password string               `bson:"password"`
	Status   string               `bson:"status"`
	Posts    []primitive.ObjectID `bson:"posts"`
}
