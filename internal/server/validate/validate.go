// Package validate checks raw user-supplied input before anything touches
// the database. Every applicable rule is evaluated and all failures are
// collected, so the caller reports the complete list in one response.
package validate

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Registration covers the createUser input.
type Registration struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=5"`
}

// PostInput covers createPost and updatePost input.
type PostInput struct {
	Title   string `validate:"required"`
	Content string `validate:"required,min=5"`
}

var messages = map[string]string{
	"Email":    "Invalid Email",
	"Password": "Invalid Password",
	"Title":    "Invalid Title",
	"Content":  "Invalid Content",
}

var validate = validator.New()

// Struct runs all rules on s and returns the human-readable failure
// messages, at most one per field. An empty slice means valid input.
func Struct(s interface{}) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"Invalid Input"}
	}

	seen := make(map[string]bool, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.StructField()
		if seen[field] {
			continue
		}
		seen[field] = true
		if m, ok := messages[field]; ok {
			msgs = append(msgs, m)
		} else {
			msgs = append(msgs, "Invalid "+field)
		}
	}
	return msgs
}
