package models

import "time"

// RateLimit keeps one document per user holding the timestamp of that
// user's last successful order. It is overwritten on every order and never
// deleted.
type RateLimit struct {
	User_id       string    `json:"user_id"`
	Last_order_at time.Time `json:"last_order_at"`
}
