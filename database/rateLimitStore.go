package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brewtab/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RateLimitStore struct {
	collection *mongo.Collection
}

func NewRateLimitStore(client *mongo.Client) *RateLimitStore {
	return &RateLimitStore{collection: OpenCollection(client, "rate_limits")}
}

func (s *RateLimitStore) LastOrderAt(ctx context.Context, userID string) (time.Time, bool, error) {
	var record models.RateLimit
	err := s.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("lookup rate limit: %w", err)
	}
	return record.Last_order_at, true, nil
}

func (s *RateLimitStore) SetLastOrderAt(ctx context.Context, userID string, at time.Time) error {
	updateObj := bson.D{
		{Key: "user_id", Value: userID},
		{Key: "last_order_at", Value: at},
	}
	upsert := true
	opts := options.UpdateOptions{
		Upsert: &upsert,
	}
	_, err := s.collection.UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		bson.D{{Key: "$set", Value: updateObj}},
		&opts,
	)
	if err != nil {
		return fmt.Errorf("set rate limit: %w", err)
	}
	return nil
}
