package model

import "time"

// Menu represents an entry in the menus table (a meal kit on the catalog).
type Menu struct {
	MenuID      int64      `json:"menuid"`
	CategoryID  int64      `json:"categoryid"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Available   bool       `json:"available"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

type MenuCategory struct {
	CategoryID   int64  `json:"categoryid"`
	CategoryName string `json:"categoryname"`
}
