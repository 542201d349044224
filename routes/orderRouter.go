package routes

import (
	controller "brewtab/controllers"

	"github.com/gin-gonic/gin"
)

func OrderRoutes(incomingRoutes *gin.Engine, orders *controller.OrderController, feeds *controller.FeedController) {
	incomingRoutes.POST("/orders", orders.PlaceOrder())
	incomingRoutes.GET("/orders", orders.GetActiveOrders())
	incomingRoutes.PATCH("/orders/:order_id/status", orders.UpdateOrderStatus())
	incomingRoutes.PATCH("/orders/:order_id/archive", orders.ArchiveOrder())
	incomingRoutes.GET("/ws/orders/:restaurant_id", feeds.OrdersFeed())
}
