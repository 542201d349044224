package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// MenuItem carries the authoritative price for an item. Orders are always
// totalled from these documents, not from anything a client sends.
type MenuItem struct {
	ID            primitive.ObjectID `bson:"_id"`
	Item_id       string             `json:"item_id"`
	Restaurant_id string             `json:"restaurant_id" validate:"required"`
	Name          string             `json:"name" validate:"required"`
	Price         float64            `json:"price" validate:"min=0"`
}
