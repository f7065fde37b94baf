package model

import "time"

// Subscription is a recurring weekly meal plan owned by a user; the menus
// on the plan live in the subscription_menus join table.
type Subscription struct {
	SubscriptionID int64      `json:"subscriptionid"`
	UserID         int64      `json:"userid"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	MenuIDs        []int64    `json:"menu_ids,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
}
