package routes

import (
	controller "brewtab/controllers"

	"github.com/gin-gonic/gin"
)

func UserRoutes(incomingRoutes *gin.Engine, users *controller.UserController) {
	incomingRoutes.POST("/auth/anonymous", users.SignInAnonymously())
	incomingRoutes.POST("/auth/signup", users.SignUp())
	incomingRoutes.POST("/auth/login", users.Login())
}

// SessionRoutes are the auth endpoints that require a valid token.
func SessionRoutes(incomingRoutes *gin.Engine, users *controller.UserController) {
	incomingRoutes.GET("/auth/admin/:slug", users.CheckAdmin())
}
