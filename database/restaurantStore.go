package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"brewtab/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RestaurantStore struct {
	collection *mongo.Collection
}

func NewRestaurantStore(client *mongo.Client) *RestaurantStore {
	return &RestaurantStore{collection: OpenCollection(client, "restaurants")}
}

// BySlug returns (nil, nil) when no restaurant has the slug.
func (s *RestaurantStore) BySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.collection.FindOne(ctx, bson.M{"slug": slug}).Decode(&restaurant)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup restaurant: %w", err)
	}
	return &restaurant, nil
}

// WatchBySlug opens a change stream on one restaurant's configuration and
// delivers the current document to onUpdate immediately and again on every
// change. A missing slug is reported through onError once, after which no
// further callbacks fire until the document appears. The release func is
// safe to call more than once.
func (s *RestaurantStore) WatchBySlug(slug string, onUpdate func(*models.Restaurant), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "fullDocument.slug", Value: slug},
		}}},
	}
	stream, err := s.collection.Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch restaurant config: %w", err)
	}

	go func() {
		defer stream.Close(context.Background())

		restaurant, err := s.BySlug(ctx, slug)
		switch {
		case err != nil:
			if onError != nil {
				onError(err)
			}
		case restaurant == nil:
			if onError != nil {
				onError(fmt.Errorf("restaurant %q not found", slug))
			}
		default:
			onUpdate(restaurant)
		}

		for stream.Next(ctx) {
			restaurant, err := s.BySlug(ctx, slug)
			if err != nil || restaurant == nil {
				if err != nil && onError != nil {
					onError(err)
				}
				continue
			}
			onUpdate(restaurant)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil && onError != nil {
			onError(err)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}
