package database

import (
	"context"
	"fmt"

	"brewtab/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MenuStore struct {
	collection *mongo.Collection
}

func NewMenuStore(client *mongo.Client) *MenuStore {
	return &MenuStore{collection: OpenCollection(client, "menu_items")}
}

func (s *MenuStore) ByRestaurant(ctx context.Context, restaurantID string) ([]models.MenuItem, error) {
	cursor, err := s.collection.Find(ctx, bson.M{"restaurant_id": restaurantID})
	if err != nil {
		return nil, fmt.Errorf("query menu items: %w", err)
	}
	var items []models.MenuItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode menu items: %w", err)
	}
	return items, nil
}

// PricesByRestaurant maps item id to the authoritative catalog price for
// one restaurant. The query is tenant-scoped, so an item id from another
// restaurant's menu is simply absent from the map.
func (s *MenuStore) PricesByRestaurant(ctx context.Context, restaurantID string) (map[string]float64, error) {
	items, err := s.ByRestaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(items))
	for _, item := range items {
		prices[item.Item_id] = item.Price
	}
	return prices, nil
}
