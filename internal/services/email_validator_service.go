package services

import (
	"context"
	"errors"
)

type EmailValidator interface {
	Validate(ctx context.Context, email string) error
}

// LocalValidator is the offline fallback used when the external
// reputation service is disabled: format checking only.
type LocalValidator struct{}

func NewLocalValidator() *LocalValidator {
	return &LocalValidator{}
}

func (v *LocalValidator) Validate(_ context.Context, email string) error {
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}
