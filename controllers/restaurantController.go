package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"brewtab/models"
	"brewtab/services"

	"github.com/gin-gonic/gin"
)

type RestaurantController struct {
	service *services.RestaurantService
}

func NewRestaurantController(service *services.RestaurantService) *RestaurantController {
	return &RestaurantController{service: service}
}

func (ctl *RestaurantController) GetRestaurantBySlug() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		slug := c.Param("slug")
		restaurant, err := ctl.service.BySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, services.ErrRestaurantNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			slog.Error("restaurant lookup failed", "slug", slug, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching restaurant"})
			return
		}
		c.JSON(http.StatusOK, restaurant)
	}
}

func (ctl *RestaurantController) GetMenu() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		slug := c.Param("slug")
		items, err := ctl.service.MenuBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, services.ErrRestaurantNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			slog.Error("menu lookup failed", "slug", slug, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error occurred while fetching menu"})
			return
		}
		if items == nil {
			items = []models.MenuItem{}
		}
		c.JSON(http.StatusOK, items)
	}
}
