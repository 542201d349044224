package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"brewtab/models"
	"brewtab/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
)

var validate = validator.New()

const requestTimeout = 10 * time.Second

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// PlaceOrder is the order-placement endpoint. Everything that matters is
// decided server-side: the caller identity comes from the auth middleware,
// prices come from the catalog, and the request's price fields are ignored.
func (ctl *OrderController) PlaceOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		var req services.PlaceOrderRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := ctl.service.PlaceOrder(ctx, c.GetString("uid"), req)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnauthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrCooldownActive):
				c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			case errors.Is(err, services.ErrItemNotFound):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				slog.Error("place order failed", "error", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "order was not created"})
			}
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func (ctl *OrderController) GetActiveOrders() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		restaurantID := c.Query("restaurant_id")
		if restaurantID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_id is required"})
			return
		}

		orders, err := ctl.service.ActiveOrders(ctx, restaurantID)
		if err != nil {
			slog.Error("list active orders failed", "restaurant_id", restaurantID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while listing orders"})
			return
		}
		if orders == nil {
			orders = []models.Order{}
		}
		c.JSON(http.StatusOK, orders)
	}
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,eq=awaiting_payment|eq=pending|eq=preparing|eq=ready|eq=completed|eq=archived"`
}

func (ctl *OrderController) UpdateOrderStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		orderID := c.Param("order_id")
		var req updateStatusRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := validate.Struct(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := ctl.service.UpdateStatus(ctx, orderID, req.Status); err != nil {
			slog.Error("order status update failed", "order_id", orderID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order status update failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": req.Status})
	}
}

func (ctl *OrderController) ArchiveOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		orderID := c.Param("order_id")
		if err := ctl.service.Archive(ctx, orderID); err != nil {
			slog.Error("order archive failed", "order_id", orderID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order archive failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": models.StatusArchived})
	}
}
