package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"brewtab/models"
)

var (
	ErrUnauthenticated = errors.New("you must be logged in to order")
	ErrCooldownActive  = errors.New("please wait before placing another order")
	ErrItemNotFound    = errors.New("item not found in menu")
)

const (
	orderCooldown  = 10 * time.Second
	maxNameLength  = 50
	maxNotesLength = 500
	defaultName    = "Guest"
)

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (string, error)
	SetStatus(ctx context.Context, orderID string, status string, updatedAt time.Time, completedAt *time.Time) error
	Archive(ctx context.Context, orderID string, archivedAt time.Time) error
	ActiveByRestaurant(ctx context.Context, restaurantID string) ([]models.Order, error)
	WatchActive(restaurantID string, onUpdate func([]models.Order), onError func(error)) (func(), error)
}

type MenuPrices interface {
	PricesByRestaurant(ctx context.Context, restaurantID string) (map[string]float64, error)
}

type RateLimitStore interface {
	LastOrderAt(ctx context.Context, userID string) (time.Time, bool, error)
	SetLastOrderAt(ctx context.Context, userID string, at time.Time) error
}

type PlaceOrderRequest struct {
	RestaurantID string          `json:"restaurantId" validate:"required"`
	TableNum     int             `json:"tableNum"`
	Items        []RequestedItem `json:"items" validate:"required,min=1,dive"`
	CustomerName string          `json:"customerName"`
	Notes        string          `json:"notes"`
}

// RequestedItem is what the client claims to order. Only ID, Name and Qty
// are trusted; Price is accepted on the wire and then discarded.
type RequestedItem struct {
	ID    string  `json:"id" validate:"required"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty" validate:"required,min=1"`
}

type PlaceOrderResult struct {
	Success bool    `json:"success"`
	OrderID string  `json:"orderId"`
	Total   float64 `json:"total"`
}

type OrderService struct {
	orders     OrderStore
	menu       MenuPrices
	rateLimits RateLimitStore
	now        func() time.Time
}

func NewOrderService(orders OrderStore, menu MenuPrices, rateLimits RateLimitStore) *OrderService {
	return &OrderService{
		orders:     orders,
		menu:       menu,
		rateLimits: rateLimits,
		now:        time.Now,
	}
}

// PlaceOrder validates and persists an order on behalf of userID.
//
// Nothing financial is taken from the request: every line is re-priced from
// the restaurant's catalog and the total recomputed server-side, so a
// compromised client can at most order real items at real prices. The
// cooldown is a fixed 10-second window over the caller's last successful
// order; the check and the write are separate operations, so two concurrent
// requests can both slip through — it is a throttle, not a lock.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, req PlaceOrderRequest) (PlaceOrderResult, error) {
	if userID == "" {
		return PlaceOrderResult{}, ErrUnauthenticated
	}

	now := s.now()
	lastOrder, exists, err := s.rateLimits.LastOrderAt(ctx, userID)
	if err != nil {
		return PlaceOrderResult{}, fmt.Errorf("rate limit lookup: %w", err)
	}
	if exists && now.Sub(lastOrder) < orderCooldown {
		return PlaceOrderResult{}, ErrCooldownActive
	}

	customerName := sanitize(req.CustomerName, maxNameLength)
	if customerName == "" {
		customerName = defaultName
	}
	notes := sanitize(req.Notes, maxNotesLength)

	prices, err := s.menu.PricesByRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return PlaceOrderResult{}, fmt.Errorf("menu lookup: %w", err)
	}

	var total float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, requested := range req.Items {
		price, ok := prices[requested.ID]
		if !ok {
			return PlaceOrderResult{}, fmt.Errorf("item %q: %w", requested.ID, ErrItemNotFound)
		}
		total += price * float64(requested.Qty)
		items = append(items, models.OrderItem{
			Item_id:  requested.ID,
			Name:     requested.Name,
			Price:    price,
			Quantity: requested.Qty,
		})
	}

	order := models.Order{
		Restaurant_id: req.RestaurantID,
		Table_number:  req.TableNum,
		Items:         items,
		Status:        models.StatusAwaitingPayment,
		Total:         total,
		Customer_name: customerName,
		Notes:         notes,
		User_id:       userID,
		Created_at:    now,
		Updated_at:    now,
	}
	orderID, err := s.orders.Insert(ctx, &order)
	if err != nil {
		return PlaceOrderResult{}, fmt.Errorf("persist order: %w", err)
	}

	if err := s.rateLimits.SetLastOrderAt(ctx, userID, now); err != nil {
		return PlaceOrderResult{}, fmt.Errorf("update rate limit: %w", err)
	}

	return PlaceOrderResult{Success: true, OrderID: orderID, Total: total}, nil
}

// Subscribe opens a live query over the restaurant's active orders. The
// full ordered result set is delivered on every change. The returned
// release func must be called to free the listener; calling it more than
// once is safe.
func (s *OrderService) Subscribe(restaurantID string, onUpdate func([]models.Order), onError func(error)) (func(), error) {
	return s.orders.WatchActive(restaurantID, onUpdate, onError)
}

func (s *OrderService) ActiveOrders(ctx context.Context, restaurantID string) ([]models.Order, error) {
	return s.orders.ActiveByRestaurant(ctx, restaurantID)
}

// UpdateStatus writes the new status over whatever was there before; no
// transition legality is enforced here. completed_at is stamped only when
// the new status is completed.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status string) error {
	now := s.now()
	var completedAt *time.Time
	if status == models.StatusCompleted {
		completedAt = &now
	}
	return s.orders.SetStatus(ctx, orderID, status, now, completedAt)
}

// Archive soft-deletes an order regardless of its prior status.
func (s *OrderService) Archive(ctx context.Context, orderID string) error {
	return s.orders.Archive(ctx, orderID, s.now())
}

func sanitize(value string, maxLength int) string {
	value = strings.TrimSpace(value)
	if runes := []rune(value); len(runes) > maxLength {
		return string(runes[:maxLength])
	}
	return value
}
