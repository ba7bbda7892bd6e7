package routes

import (
	"realty_hub/internal/controllers"
)

func PropertyRoutes(g groups, ctl *controllers.Controller) {
	g.public.GET("/properties", ctl.ListProperties)
	g.public.GET("/properties/:id", ctl.GetProperty)
	g.public.GET("/properties/:id/images", ctl.ListImages)

	properties := g.protected.Group("/properties")
	{
		properties.POST("", ctl.CreateProperty)
		properties.PUT("/:id", ctl.UpdateProperty)
		properties.DELETE("/:id", ctl.DeleteProperty)
		properties.POST("/:id/images", ctl.CreateImage)
	}
	g.protected.DELETE("/images/:id", ctl.DeleteImage)
}
