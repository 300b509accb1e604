package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindStrings(t *testing.T) {
	kinds := []ErrorKind{KindValidation, KindPermissionDenied, KindStateConflict, KindNotFound, KindConflict}
	seen := make(map[string]bool)
	for _, k := range kinds {
		s := k.String()
		assert.NotEqual(t, "unknown", s)
		assert.False(t, seen[s], "duplicate kind string %s", s)
		seen[s] = true
	}
	assert.Equal(t, "unknown", ErrorKind(0).String())
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Kind: KindConflict, Message: "duplicate", Cause: cause}
	assert.Equal(t, "duplicate: boom", err.Error())
	assert.ErrorIs(t, err, cause)

	plain := NewValidationError("bad input")
	assert.Equal(t, "bad input", plain.Error())
	assert.Nil(t, plain.Unwrap())
}

func TestIsKind_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewStateConflict("wrong state"))
	assert.True(t, IsKind(err, KindStateConflict))
	assert.False(t, IsKind(err, KindNotFound))
	assert.Equal(t, ErrorKind(0), KindOf(errors.New("plain")))
}

func TestNotFoundOr(t *testing.T) {
	err := NotFoundOr(fmt.Errorf("get: %w", ErrNoRecord), "listing not found")
	assert.True(t, IsKind(err, KindNotFound))

	other := NotFoundOr(errors.New("connection reset"), "listing lookup")
	assert.Equal(t, ErrorKind(0), KindOf(other))
	assert.Contains(t, other.Error(), "connection reset")
}
