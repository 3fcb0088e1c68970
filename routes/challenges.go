package routes

import (
	"taskhero/controllers"

	"github.com/gin-gonic/gin"
)

func GetChallengesRouteHandler(ctx *gin.Context) {
	controllers.GetChallenges(ctx)
}
