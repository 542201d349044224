package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User covers both anonymous customer sessions and admin accounts.
// Anonymous users carry no email or password.
type User struct {
	ID           primitive.ObjectID `bson:"_id"`
	User_id      string             `json:"user_id"`
	Name         *string            `json:"name"`
	Email        *string            `json:"email" validate:"omitempty,email"`
	Password     *string            `json:"password,omitempty"`
	Is_anonymous bool               `json:"is_anonymous"`
	Created_at   time.Time          `json:"created_at"`
	Updated_at   time.Time          `json:"updated_at"`
}
