package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nimbuslabs/nimbus-vps-service/http/controller"
	middlewares "github.com/nimbuslabs/nimbus-vps-service/http/middleware"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)
	r.GET("/healthz", ctrl.HealthCheck)

	vpsRoutes := r.Group("/vps")
	{
		vpsRoutes.Use(middles.AuthMiddleware)

		vpsRoutes.POST("", ctrl.CreateVps)
		vpsRoutes.GET("", ctrl.ListVps)
		vpsRoutes.POST("/power", ctrl.ExecutePowerCommand)
		vpsRoutes.GET("/:id", ctrl.GetVpsByID)
		vpsRoutes.DELETE("/:id", ctrl.DeleteVps)
	}

	return r
}
