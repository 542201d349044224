package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Theme struct {
	Primary_color string  `json:"primary_color"`
	Accent_color  string  `json:"accent_color"`
	Logo          *string `json:"logo,omitempty"`
}

type Restaurant struct {
	ID            primitive.ObjectID `bson:"_id"`
	Restaurant_id string             `json:"restaurant_id"`
	Name          string             `json:"name" validate:"required,min=2,max=100"`
	Slug          string             `json:"slug" validate:"required"`
	Theme         Theme              `json:"theme"`
	Subscription  string             `json:"subscription" validate:"required,eq=free|eq=barista|eq=roaster|eq=tycoon"`
	Owner_id      string             `json:"owner_id"`
	Created_at    time.Time          `json:"created_at"`
	Updated_at    time.Time          `json:"updated_at"`
}
