package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalValidatorEmailFormat(t *testing.T) {
	v := NewLocalValidator()
	ctx := context.Background()

	assert.NoError(t, v.Validate(ctx, "somchai@example.com"))
	assert.NoError(t, v.Validate(ctx, "a.b+tag@sub.example.co"))

	assert.Error(t, v.Validate(ctx, ""))
	assert.Error(t, v.Validate(ctx, "not-an-email"))
	assert.Error(t, v.Validate(ctx, "missing@tld"))
	assert.Error(t, v.Validate(ctx, "@example.com"))
}

func TestAuthServiceValidatePassword(t *testing.T) {
	s := &AuthService{}

	assert.Error(t, s.validatePassword(""))
	assert.Error(t, s.validatePassword("short"))
	assert.NoError(t, s.validatePassword("longenough"))
}

func TestAuthServiceValidateEmail(t *testing.T) {
	s := &AuthService{}

	assert.NoError(t, s.validateEmail("somchai@example.com"))
	assert.Error(t, s.validateEmail(""))
	assert.Error(t, s.validateEmail("bad"))
}
