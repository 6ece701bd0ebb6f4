package errors

import (
	// Go Internal Packages
	stderrors "errors"
	"fmt"
	"testing"

	// External Packages
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOfWrapped(t *testing.T) {
	base := NetworkErr(stderrors.New("dial tcp: refused"))
	wrapped := fmt.Errorf("initiate: %w", base)

	assert.Equal(t, Network, KindOf(wrapped))
	assert.True(t, Is(Network, wrapped))
	assert.False(t, Is(Server, wrapped))
	assert.Equal(t, Other, KindOf(stderrors.New("plain")))
	assert.Equal(t, "Network error. Please try again.", MessageOf(wrapped))
}

func TestValidationErrs(t *testing.T) {
	ve := ValidationErrs()
	require.NoError(t, ve.Err())

	ve.Add("phone", "cannot be empty")
	ve.Add("amount", "must be a number")
	ve.Add("amount", "must be at least 10")

	err := ValidationFailedErr(ve.Err())
	require.Error(t, err)
	assert.Equal(t, Invalid, KindOf(err))
	assert.Equal(t, []string{"amount", "phone"}, ve.Fields())
	assert.Equal(t, map[string]string{
		"amount": "must be a number; must be at least 10",
		"phone":  "cannot be empty",
	}, FieldErrors(err))
	assert.Equal(t, "validation failed: amount: must be a number; must be at least 10, phone: cannot be empty", err.Error())
}

func TestServerErrDefaultMessage(t *testing.T) {
	assert.Equal(t, "Server failed. Try again.", MessageOf(ServerErr(500, "")))
	assert.Equal(t, "insufficient float", MessageOf(ServerErr(400, "insufficient float")))
}
