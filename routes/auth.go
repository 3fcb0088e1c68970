package routes

import (
	"taskhero/controllers"

	"github.com/gin-gonic/gin"
)

func SignUpRouteHandler(ctx *gin.Context) {
	controllers.SignUp(ctx)
}

func LoginRouteHandler(ctx *gin.Context) {
	controllers.Login(ctx)
}

func RegisterPushTokenRouteHandler(ctx *gin.Context) {
	controllers.RegisterPushToken(ctx)
}
