package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"brewtab/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderStore struct {
	collection *mongo.Collection
}

func NewOrderStore(client *mongo.Client) *OrderStore {
	return &OrderStore{collection: OpenCollection(client, "orders")}
}

func (s *OrderStore) Insert(ctx context.Context, order *models.Order) (string, error) {
	order.ID = primitive.NewObjectID()
	order.Order_id = order.ID.Hex()
	if _, err := s.collection.InsertOne(ctx, order); err != nil {
		return "", fmt.Errorf("insert order: %w", err)
	}
	return order.Order_id, nil
}

func (s *OrderStore) SetStatus(ctx context.Context, orderID string, status string, updatedAt time.Time, completedAt *time.Time) error {
	var updateObj primitive.D
	updateObj = append(updateObj, bson.E{Key: "status", Value: status})
	updateObj = append(updateObj, bson.E{Key: "updated_at", Value: updatedAt})
	if completedAt != nil {
		updateObj = append(updateObj, bson.E{Key: "completed_at", Value: *completedAt})
	}

	result, err := s.collection.UpdateOne(
		ctx,
		bson.M{"order_id": orderID},
		bson.D{{Key: "$set", Value: updateObj}},
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

func (s *OrderStore) Archive(ctx context.Context, orderID string, archivedAt time.Time) error {
	updateObj := bson.D{
		{Key: "status", Value: models.StatusArchived},
		{Key: "updated_at", Value: archivedAt},
		{Key: "archived_at", Value: archivedAt},
	}

	result, err := s.collection.UpdateOne(
		ctx,
		bson.M{"order_id": orderID},
		bson.D{{Key: "$set", Value: updateObj}},
	)
	if err != nil {
		return fmt.Errorf("archive order: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

// ActiveByRestaurant returns the restaurant's in-flight orders (pending,
// preparing or ready) ordered by creation time ascending.
func (s *OrderStore) ActiveByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error) {
	filter := bson.M{
		"restaurant_id": restaurantID,
		"status": bson.M{"$in": []string{
			models.StatusPending,
			models.StatusPreparing,
			models.StatusReady,
		}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query active orders: %w", err)
	}
	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode active orders: %w", err)
	}
	return orders, nil
}

// WatchActive opens a change stream scoped to one restaurant's orders and
// re-runs the active-orders query on every event, delivering the full
// ordered result set to onUpdate each time. The initial result set is
// delivered before any change events. The returned release func is safe to
// call more than once; the stream is closed on the first call.
//
// Orders are archived rather than deleted, so delete events are not matched.
func (s *OrderStore) WatchActive(restaurantID string, onUpdate func([]models.Order), onError func(error)) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "fullDocument.restaurant_id", Value: restaurantID},
		}}},
	}
	stream, err := s.collection.Watch(ctx, pipeline,
		options.ChangeStream().SetFullDocument(options.UpdateLookup))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch orders: %w", err)
	}

	go func() {
		defer stream.Close(context.Background())

		orders, err := s.ActiveByRestaurant(ctx, restaurantID)
		if err != nil {
			if onError != nil {
				onError(err)
			}
		} else {
			onUpdate(orders)
		}

		for stream.Next(ctx) {
			orders, err := s.ActiveByRestaurant(ctx, restaurantID)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onUpdate(orders)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil && onError != nil {
			onError(err)
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}
