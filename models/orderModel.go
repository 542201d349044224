package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusAwaitingPayment = "awaiting_payment"
	StatusPending         = "pending"
	StatusPreparing       = "preparing"
	StatusReady           = "ready"
	StatusCompleted       = "completed"
	StatusArchived        = "archived"
)

// OrderItem is stored embedded in its order. Price always holds the catalog
// price current at order time, never a client-submitted value.
type OrderItem struct {
	Item_id  string  `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID            primitive.ObjectID `bson:"_id"`
	Order_id      string             `json:"order_id"`
	Restaurant_id string             `json:"restaurant_id" validate:"required"`
	Table_number  int                `json:"table_number"`
	Items         []OrderItem        `json:"items"`
	Status        string             `json:"status" validate:"required,eq=awaiting_payment|eq=pending|eq=preparing|eq=ready|eq=completed|eq=archived"`
	Total         float64            `json:"total"`
	Customer_name string             `json:"customer_name"`
	Notes         string             `json:"notes"`
	User_id       string             `json:"user_id"`
	Created_at    time.Time          `json:"created_at"`
	Updated_at    time.Time          `json:"updated_at"`
	Completed_at  *time.Time         `json:"completed_at,omitempty"`
	Archived_at   *time.Time         `json:"archived_at,omitempty"`
}
