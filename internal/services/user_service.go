package services

import (
	"context"
	"errors"
	"strings"

	"github.com/werawoot/krua-thai/internal/model"
	"github.com/werawoot/krua-thai/internal/repository"
)

// UserService backs the profile editor.
type UserService struct {
	Users *repository.UserRepository
}

func NewUserService(ur *repository.UserRepository) *UserService {
	return &UserService{Users: ur}
}

func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// ProfileUpdate carries the editable profile fields. The form posts all
// of them on every submit; empty optional fields clear the stored value.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd *ProfileUpdate) []model.FieldError {
	var errs []model.FieldError
	add := func(field, message string) {
		errs = append(errs, model.FieldError{Field: field, Message: message})
	}

	first := strings.TrimSpace(upd.FirstName)
	last := strings.TrimSpace(upd.LastName)
	if first == "" {
		add("first_name", "first name is required")
	}
	if last == "" {
		add("last_name", "last name is required")
	}
	phone := strings.TrimSpace(upd.Phone)
	if phone != "" && !phoneRegex.MatchString(phone) {
		add("phone", "invalid phone number")
	}
	zip := strings.TrimSpace(upd.Zip)
	if zip != "" && !zipRegex.MatchString(zip) {
		add("zip", "invalid zip code")
	}
	if len(errs) > 0 {
		return errs
	}

	optional := func(v string) *string {
		if v == "" {
			return nil
		}
		return &v
	}
	err := s.Users.UpdateProfile(ctx, userID,
		&first, &last,
		optional(phone),
		optional(strings.TrimSpace(upd.Address)),
		optional(strings.TrimSpace(upd.City)),
		optional(strings.TrimSpace(upd.State)),
		optional(zip))
	if err != nil {
		add("profile", err.Error())
	}
	return errs
}

// BanUser is admin-only and not exposed to customers.
func (s *UserService) BanUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return errors.New("invalid user id")
	}
	return s.Users.SoftDelete(ctx, userID)
}
