package routes

import (
	"taskhero/controllers"

	"github.com/gin-gonic/gin"
)

func CreateTaskRouteHandler(ctx *gin.Context) {
	controllers.CreateTask(ctx)
}

func ListTasksRouteHandler(ctx *gin.Context) {
	controllers.ListTasks(ctx)
}

func UpdateTaskStatusRouteHandler(ctx *gin.Context) {
	controllers.UpdateTaskStatus(ctx)
}

func CompleteTaskRouteHandler(ctx *gin.Context) {
	controllers.CompleteTask(ctx)
}
