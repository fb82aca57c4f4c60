package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistration_AllFailuresCollected(t *testing.T) {
	t.Parallel()

	msgs := Struct(Registration{Email: "not-an-email", Password: "abc"})
	assert.ElementsMatch(t, []string{"Invalid Email", "Invalid Password"}, msgs)
}

func TestRegistration_Valid(t *testing.T) {
	t.Parallel()

	msgs := Struct(Registration{Email: "user@example.com", Password: "secret"})
	assert.Empty(t, msgs)
}

func TestRegistration_EmptyPassword(t *testing.T) {
	t.Parallel()

	msgs := Struct(Registration{Email: "user@example.com", Password: ""})
	assert.Equal(t, []string{"Invalid Password"}, msgs)
}

func TestRegistration_PasswordExactlyFiveChars(t *testing.T) {
	t.Parallel()

	msgs := Struct(Registration{Email: "user@example.com", Password: "12345"})
	assert.Empty(t, msgs)
}

func TestPostInput_AllFailuresCollected(t *testing.T) {
	t.Parallel()

	msgs := Struct(PostInput{Title: "", Content: "tiny"})
	assert.ElementsMatch(t, []string{"Invalid Title", "Invalid Content"}, msgs)
}

func TestPostInput_Valid(t *testing.T) {
	t.Parallel()

	msgs := Struct(PostInput{Title: "Hello", Content: "long enough"})
	assert.Empty(t, msgs)
}
