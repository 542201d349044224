package services

import (
	"context"
	"errors"

	"brewtab/models"
)

var ErrRestaurantNotFound = errors.New("restaurant not found")

type ConfigStore interface {
	BySlug(ctx context.Context, slug string) (*models.Restaurant, error)
	WatchBySlug(slug string, onUpdate func(*models.Restaurant), onError func(error)) (func(), error)
}

type MenuCatalog interface {
	ByRestaurant(ctx context.Context, restaurantID string) ([]models.MenuItem, error)
}

type RestaurantService struct {
	configs ConfigStore
	menu    MenuCatalog
}

func NewRestaurantService(configs ConfigStore, menu MenuCatalog) *RestaurantService {
	return &RestaurantService{configs: configs, menu: menu}
}

func (s *RestaurantService) BySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	restaurant, err := s.configs.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, nil
}

// SubscribeToConfig opens a live subscription to one restaurant's
// configuration, keyed by slug. onUpdate fires with the current document
// immediately and again on every change; a missing slug is reported through
// onError. The release func is single-use but safe to call repeatedly.
func (s *RestaurantService) SubscribeToConfig(slug string, onUpdate func(*models.Restaurant), onError func(error)) (func(), error) {
	return s.configs.WatchBySlug(slug, onUpdate, onError)
}

func (s *RestaurantService) MenuBySlug(ctx context.Context, slug string) ([]models.MenuItem, error) {
	restaurant, err := s.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.menu.ByRestaurant(ctx, restaurant.Restaurant_id)
}
