package controllers

import (
	"log/slog"
	"net/http"
	"sync"

	"brewtab/models"
	"brewtab/services"
	"brewtab/tenant"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Message struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

type FeedController struct {
	orders      *services.OrderService
	restaurants *services.RestaurantService
}

func NewFeedController(orders *services.OrderService, restaurants *services.RestaurantService) *FeedController {
	return &FeedController{orders: orders, restaurants: restaurants}
}

// OrdersFeed streams a restaurant's active order set to a kitchen display.
// Each connection holds one live subscription, released when the socket
// closes.
func (ctl *FeedController) OrdersFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurantID := c.Param("restaurant_id")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		var writeMu sync.Mutex
		send := func(message Message) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(message); err != nil {
				slog.Warn("websocket write failed", "error", err)
			}
		}

		release, err := ctl.orders.Subscribe(restaurantID,
			func(orders []models.Order) {
				send(Message{Event: "orders", Payload: orders})
			},
			func(err error) {
				send(Message{Event: "error", Payload: err.Error()})
			},
		)
		if err != nil {
			slog.Error("order subscription failed", "restaurant_id", restaurantID, "error", err)
			send(Message{Event: "error", Payload: "subscription unavailable"})
			return
		}
		defer release()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}

// TenantFeed streams a restaurant's configuration and theme to a storefront
// client, keyed by slug. The connection owns one tenant provider; closing
// the socket closes its config subscription.
func (ctl *FeedController) TenantFeed() gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Param("slug")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		var writeMu sync.Mutex
		send := func(message Message) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteJSON(message); err != nil {
				slog.Warn("websocket write failed", "error", err)
			}
		}

		styles := tenant.NewStyleVars()
		provider := tenant.NewProvider(ctl.restaurants, styles)
		provider.OnChange = func(snap tenant.Snapshot) {
			send(Message{Event: "config", Payload: snap.Config})
			send(Message{Event: "theme", Payload: styles.All()})
		}
		provider.SetSlug(slug)
		defer provider.Close()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
