package main

import (
	"log"
	"os"
	"time"

	"brewtab/controllers"
	"brewtab/database"
	"brewtab/middleware"
	"brewtab/routes"
	"brewtab/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	orderStore := database.NewOrderStore(database.Client)
	menuStore := database.NewMenuStore(database.Client)
	rateLimitStore := database.NewRateLimitStore(database.Client)
	restaurantStore := database.NewRestaurantStore(database.Client)
	userStore := database.NewUserStore(database.Client)

	sessions := services.NewSessionBroker()
	orderService := services.NewOrderService(orderStore, menuStore, rateLimitStore)
	restaurantService := services.NewRestaurantService(restaurantStore, menuStore)
	authService := services.NewAuthService(userStore, restaurantStore, sessions)

	orderController := controllers.NewOrderController(orderService)
	restaurantController := controllers.NewRestaurantController(restaurantService)
	userController := controllers.NewUserController(authService)
	feedController := controllers.NewFeedController(orderService, restaurantService)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:9000"},
		AllowMethods:     []string{"POST", "GET", "PATCH", "DELETE", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public surface: sessions and the tenant storefront reads.
	routes.UserRoutes(router, userController)
	routes.RestaurantRoutes(router, restaurantController, feedController)

	// Everything past here requires a session token.
	router.Use(middleware.Authentication())
	routes.OrderRoutes(router, orderController, feedController)
	routes.SessionRoutes(router, userController)

	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
