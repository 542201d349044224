package routes

import (
	controller "brewtab/controllers"

	"github.com/gin-gonic/gin"
)

func RestaurantRoutes(incomingRoutes *gin.Engine, restaurants *controller.RestaurantController, feeds *controller.FeedController) {
	incomingRoutes.GET("/restaurants/:slug", restaurants.GetRestaurantBySlug())
	incomingRoutes.GET("/restaurants/:slug/menu", restaurants.GetMenu())
	incomingRoutes.GET("/ws/tenant/:slug", feeds.TenantFeed())
}
