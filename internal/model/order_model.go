package model

import "time"

// Order statuses. Orders start pending; later transitions (preparing,
// delivered, ...) happen elsewhere in the system.
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
	OrderStatusFailed  = "failed"
)

// Order represents a row in the orders table. Never mutated by the
// checkout flow after creation.
type Order struct {
	OrderID              int64      `json:"orderid"`
	OrderNumber          string     `json:"order_number"`
	UserID               int64      `json:"userid"`
	DeliveryDate         time.Time  `json:"delivery_date"`
	DeliveryAddress      string     `json:"delivery_address"`
	DeliveryInstructions *string    `json:"delivery_instructions,omitempty"`
	Subtotal             float64    `json:"subtotal"`
	DeliveryFee          float64    `json:"delivery_fee"`
	TaxAmount            float64    `json:"tax_amount"`
	Total                float64    `json:"total"`
	Status               string     `json:"status"`
	CreatedAt            *time.Time `json:"created_at,omitempty"`
	UpdatedAt            *time.Time `json:"updated_at,omitempty"`
}

// OrderItem snapshots a cart item at purchase time. MenuPrice and
// TotalPrice are decoupled from the live catalog price: historical order
// totals must not change when catalog prices do.
type OrderItem struct {
	OrderItemID     int64           `json:"orderitemid"`
	OrderID         int64           `json:"orderid"`
	MenuID          *int64          `json:"menuid,omitempty"`
	MenuName        string          `json:"menu_name"`
	MenuPrice       float64         `json:"menu_price"`
	Quantity        int             `json:"quantity"`
	TotalPrice      float64         `json:"total_price"`
	Customizations  []Customization `json:"customizations,omitempty"`
	SpecialRequests *string         `json:"special_requests,omitempty"`
	CreatedAt       *time.Time      `json:"created_at,omitempty"`
}
