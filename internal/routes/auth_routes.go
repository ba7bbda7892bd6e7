package routes

import (
	"github.com/gin-gonic/gin"

	"realty_hub/internal/controllers"
)

func AuthRoutes(r *gin.Engine, g groups, ctl *controllers.Controller) {
	r.POST("/register", ctl.Register)
	r.POST("/token", ctl.Login)
	r.POST("/token/refresh", ctl.RefreshToken)
	r.GET("/verify-token/:token", ctl.VerifyToken)

	g.protected.GET("/user/myinfo", ctl.MyInfo)
}
