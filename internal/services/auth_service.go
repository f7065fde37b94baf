package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen = 8
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

type AuthService struct {
	Users          *repository.UserRepository
	EmailValidator EmailValidator
}

func NewAuthService(ur *repository.UserRepository, ev EmailValidator) *AuthService {
	return &AuthService{Users: ur, EmailValidator: ev}
}

func (s *AuthService) validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}
	return nil
}

func (s *AuthService) validatePassword(pw string) error {
	if len(pw) < MinPasswordLen {
		return fmt.Errorf("password too short: must be at least %d characters", MinPasswordLen)
	}
	return nil
}

// Register creates a customer account. If the email belongs to a guest
// row created during checkout, the guest account is claimed instead: it
// gets a real password and keeps its order history.
func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (int64, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.validateEmail(email); err != nil {
		return 0, err
	}
	if err := s.validatePassword(password); err != nil {
		return 0, err
	}
	if s.EmailValidator != nil {
		if err := s.EmailValidator.Validate(ctx, email); err != nil {
			return 0, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	var first, last *string
	if v := strings.TrimSpace(firstName); v != "" {
		first = &v
	}
	if v := strings.TrimSpace(lastName); v != "" {
		last = &v
	}

	existing, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		if !existing.Guest {
			return 0, errors.New("email already registered")
		}
		if err := s.Users.ClaimGuest(ctx, existing.UserID, string(hash), first, last); err != nil {
			return 0, err
		}
		return existing.UserID, nil
	}

	return s.Users.Create(ctx, email, string(hash), "customer", first, last)
}

// Login authenticates by email + password and returns the user without
// the password hash.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.Users.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		// do not reveal whether email exists
		return nil, errors.New("invalid credentials")
	}
	if u.Guest {
		// guest placeholder hashes are random and unknowable
		return nil, errors.New("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}
	u.PasswordHash = ""
	return u, nil
}

// CheckEmail is the AJAX availability check behind the registration form.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.validateEmail(email); err != nil {
		return false, err
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return true, nil
	}
	// guest rows are claimable, so the address is still available
	return u.Guest, nil
}

// SocialLogin is the glue behind OAuth sign-in: the provider has already
// verified the email (token exchange happens upstream), so we upsert the
// account and hand back the user for token issuance.
func (s *AuthService) SocialLogin(ctx context.Context, provider, email, name string) (*model.User, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider != "facebook" && provider != "google" {
		return nil, errors.New("unsupported provider")
	}
	email = strings.TrimSpace(strings.ToLower(email))
	if err := s.validateEmail(email); err != nil {
		return nil, err
	}

	u, err := s.Users.GetByEmail(ctx, email)
	if err == nil {
		if err := s.Users.SetAuthProvider(ctx, u.UserID, provider); err != nil {
			return nil, err
		}
		return s.Users.GetByID(ctx, u.UserID)
	}

	// no password login for social accounts; store an unusable hash
	hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	var first, last *string
	if parts := strings.Fields(name); len(parts) > 0 {
		first = &parts[0]
		if len(parts) > 1 {
			rest := strings.Join(parts[1:], " ")
			last = &rest
		}
	}
	id, err := s.Users.Create(ctx, email, string(hash), "customer", first, last)
	if err != nil {
		return nil, err
	}
	if err := s.Users.SetAuthProvider(ctx, id, provider); err != nil {
		return nil, err
	}
	return s.Users.GetByID(ctx, id)
}
