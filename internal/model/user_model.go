package model

import "time"

type User struct {
	UserID       int64      `json:"userid"`
	FirstName    *string    `json:"first_name,omitempty"`
	LastName     *string    `json:"last_name,omitempty"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone,omitempty"`
	Address      *string    `json:"address,omitempty"`
	City         *string    `json:"city,omitempty"`
	State        *string    `json:"state,omitempty"`
	Zip          *string    `json:"zip,omitempty"`
	PasswordHash string     `json:"-"` // never JSON-encode
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	Guest        bool       `json:"guest"`
	AuthProvider *string    `json:"auth_provider,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}
