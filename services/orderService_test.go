package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"brewtab/models"
)

type fakeOrderStore struct {
	mu        sync.Mutex
	orders    []models.Order
	insertErr error
}

func (f *fakeOrderStore) Insert(ctx context.Context, order *models.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return "", f.insertErr
	}
	order.Order_id = "order-1"
	f.orders = append(f.orders, *order)
	return order.Order_id, nil
}

func (f *fakeOrderStore) SetStatus(ctx context.Context, orderID string, status string, updatedAt time.Time, completedAt *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].Order_id == orderID {
			f.orders[i].Status = status
			f.orders[i].Updated_at = updatedAt
			f.orders[i].Completed_at = completedAt
			return nil
		}
	}
	return errors.New("order not found")
}

func (f *fakeOrderStore) Archive(ctx context.Context, orderID string, archivedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].Order_id == orderID {
			f.orders[i].Status = models.StatusArchived
			f.orders[i].Updated_at = archivedAt
			f.orders[i].Archived_at = &archivedAt
			return nil
		}
	}
	return errors.New("order not found")
}

func (f *fakeOrderStore) ActiveByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var active []models.Order
	for _, order := range f.orders {
		if order.Restaurant_id != restaurantID {
			continue
		}
		switch order.Status {
		case models.StatusPending, models.StatusPreparing, models.StatusReady:
			active = append(active, order)
		}
	}
	return active, nil
}

func (f *fakeOrderStore) WatchActive(restaurantID string, onUpdate func([]models.Order), onError func(error)) (func(), error) {
	orders, _ := f.ActiveByRestaurant(context.Background(), restaurantID)
	onUpdate(orders)
	return func() {}, nil
}

func (f *fakeOrderStore) byID(orderID string) *models.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].Order_id == orderID {
			order := f.orders[i]
			return &order
		}
	}
	return nil
}

type fakeMenuStore struct {
	mu     sync.Mutex
	prices map[string]map[string]float64
	calls  int
}

func (f *fakeMenuStore) PricesByRestaurant(ctx context.Context, restaurantID string) (map[string]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	prices := make(map[string]float64)
	for id, price := range f.prices[restaurantID] {
		prices[id] = price
	}
	return prices, nil
}

type fakeRateLimitStore struct {
	mu      sync.Mutex
	last    map[string]time.Time
	lookups int
}

func (f *fakeRateLimitStore) LastOrderAt(ctx context.Context, userID string) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	at, ok := f.last[userID]
	return at, ok, nil
}

func (f *fakeRateLimitStore) SetLastOrderAt(ctx context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last[userID] = at
	return nil
}

func newTestOrderService(at time.Time) (*OrderService, *fakeOrderStore, *fakeMenuStore, *fakeRateLimitStore) {
	orders := &fakeOrderStore{}
	menu := &fakeMenuStore{prices: map[string]map[string]float64{
		"joes-coffee-id": {
			"espresso": 120,
			"latte":    150,
		},
	}}
	rateLimits := &fakeRateLimitStore{last: make(map[string]time.Time)}
	svc := NewOrderService(orders, menu, rateLimits)
	svc.now = func() time.Time { return at }
	return svc, orders, menu, rateLimits
}

func placeRequest() PlaceOrderRequest {
	return PlaceOrderRequest{
		RestaurantID: "joes-coffee-id",
		TableNum:     4,
		Items: []RequestedItem{
			{ID: "espresso", Name: "Espresso", Price: 1, Qty: 2},
		},
		CustomerName: "Ana",
		Notes:        "no sugar",
	}
}

func TestPlaceOrderRecomputesTotalFromCatalog(t *testing.T) {
	svc, orders, _, _ := newTestOrderService(time.Now())

	result, err := svc.PlaceOrder(context.Background(), "user-1", placeRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Success {
		t.Error("expected success")
	}
	if result.Total != 240 {
		t.Errorf("expected total 240 from catalog price, got %v", result.Total)
	}

	stored := orders.byID(result.OrderID)
	if stored == nil {
		t.Fatal("order was not persisted")
	}
	if stored.Total != 240 {
		t.Errorf("expected stored total 240, got %v", stored.Total)
	}
	if stored.Items[0].Price != 120 {
		t.Errorf("expected stored item price 120, got %v", stored.Items[0].Price)
	}
	if stored.Status != models.StatusAwaitingPayment {
		t.Errorf("expected status awaiting_payment, got %s", stored.Status)
	}
	if stored.User_id != "user-1" {
		t.Errorf("expected caller identity on order, got %q", stored.User_id)
	}
}

func TestPlaceOrderRejectsUnknownItem(t *testing.T) {
	svc, orders, _, rateLimits := newTestOrderService(time.Now())

	req := placeRequest()
	req.Items = append(req.Items, RequestedItem{ID: "flat-white", Qty: 1})

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if len(orders.orders) != 0 {
		t.Error("no order should be persisted on unknown item")
	}
	if len(rateLimits.last) != 0 {
		t.Error("rate limit should not be written on failure")
	}
}

func TestPlaceOrderRejectsCrossTenantItem(t *testing.T) {
	svc, _, menu, _ := newTestOrderService(time.Now())
	menu.prices["marias-cafe-id"] = map[string]float64{"croissant": 90}

	req := placeRequest()
	req.Items = []RequestedItem{{ID: "croissant", Qty: 1}}

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound for another tenant's item, got %v", err)
	}
}

func TestPlaceOrderUnauthenticated(t *testing.T) {
	svc, orders, menu, rateLimits := newTestOrderService(time.Now())

	_, err := svc.PlaceOrder(context.Background(), "", placeRequest())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if menu.calls != 0 || rateLimits.lookups != 0 || len(orders.orders) != 0 {
		t.Error("no store access should happen for an unauthenticated caller")
	}
}

func TestPlaceOrderCooldown(t *testing.T) {
	start := time.Now()
	svc, _, _, _ := newTestOrderService(start)

	if _, err := svc.PlaceOrder(context.Background(), "user-1", placeRequest()); err != nil {
		t.Fatalf("first order: %v", err)
	}

	svc.now = func() time.Time { return start.Add(5 * time.Second) }
	_, err := svc.PlaceOrder(context.Background(), "user-1", placeRequest())
	if !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("expected ErrCooldownActive within the window, got %v", err)
	}

	svc.now = func() time.Time { return start.Add(10 * time.Second) }
	if _, err := svc.PlaceOrder(context.Background(), "user-1", placeRequest()); err != nil {
		t.Fatalf("order after cooldown: %v", err)
	}
}

func TestPlaceOrderCooldownIsPerUser(t *testing.T) {
	start := time.Now()
	svc, _, _, _ := newTestOrderService(start)

	if _, err := svc.PlaceOrder(context.Background(), "user-1", placeRequest()); err != nil {
		t.Fatalf("first order: %v", err)
	}
	if _, err := svc.PlaceOrder(context.Background(), "user-2", placeRequest()); err != nil {
		t.Fatalf("other user's order should not be throttled: %v", err)
	}
}

func TestPlaceOrderSanitizesCustomerNameAndNotes(t *testing.T) {
	svc, orders, _, _ := newTestOrderService(time.Now())

	req := placeRequest()
	req.CustomerName = "  " + strings.Repeat("a", 60)
	req.Notes = strings.Repeat("n", 600)

	result, err := svc.PlaceOrder(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := orders.byID(result.OrderID)
	if got := len(stored.Customer_name); got != 50 {
		t.Errorf("expected name truncated to 50, got %d", got)
	}
	if got := len(stored.Notes); got != 500 {
		t.Errorf("expected notes truncated to 500, got %d", got)
	}
}

func TestPlaceOrderDefaultsBlankNameToGuest(t *testing.T) {
	svc, orders, _, _ := newTestOrderService(time.Now())

	req := placeRequest()
	req.CustomerName = "   "

	result, err := svc.PlaceOrder(context.Background(), "user-1", req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := orders.byID(result.OrderID).Customer_name; got != "Guest" {
		t.Errorf("expected Guest for blank name, got %q", got)
	}
}

func TestUpdateStatusStampsCompletedAtOnlyWhenCompleted(t *testing.T) {
	at := time.Now()
	svc, orders, _, _ := newTestOrderService(at)

	result, err := svc.PlaceOrder(context.Background(), "user-1", placeRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.UpdateStatus(context.Background(), result.OrderID, models.StatusPreparing); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if stored := orders.byID(result.OrderID); stored.Completed_at != nil {
		t.Error("completed_at must not be set for preparing")
	}

	if err := svc.UpdateStatus(context.Background(), result.OrderID, models.StatusCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	stored := orders.byID(result.OrderID)
	if stored.Completed_at == nil {
		t.Fatal("completed_at must be set for completed")
	}
	if !stored.Completed_at.Equal(at) {
		t.Errorf("expected completed_at %v, got %v", at, stored.Completed_at)
	}
}

func TestArchiveStampsArchivedAtRegardlessOfPriorStatus(t *testing.T) {
	svc, orders, _, _ := newTestOrderService(time.Now())

	result, err := svc.PlaceOrder(context.Background(), "user-1", placeRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Archive(context.Background(), result.OrderID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	stored := orders.byID(result.OrderID)
	if stored.Status != models.StatusArchived {
		t.Errorf("expected archived status, got %s", stored.Status)
	}
	if stored.Archived_at == nil {
		t.Error("archived_at must be set")
	}
}
