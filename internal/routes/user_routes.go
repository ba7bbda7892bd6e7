package routes

import (
	"realty_hub/internal/controllers"
)

func UserRoutes(g groups, ctl *controllers.Controller) {
	g.public.GET("/users", ctl.ListUsers)
	g.public.GET("/users/:id", ctl.GetUser)
	g.public.GET("/users/:id/properties", ctl.ListAgentProperties)

	users := g.protected.Group("/users/:id")
	{
		users.PUT("", ctl.UpdateUser)
		users.DELETE("", ctl.DeleteUser)
		users.POST("/properties", ctl.CreateProperty)

		users.GET("/favorites", ctl.ListFavorites)
		users.POST("/properties/:property_id/favorite", ctl.AddFavorite)
		users.DELETE("/properties/:property_id/favorite", ctl.RemoveFavorite)

		users.GET("/properties/:property_id/visit-requests", ctl.ListPropertyVisitRequests)
		users.GET("/visit-requests", ctl.ListUserVisitRequests)
		users.GET("/agent-visit-requests", ctl.ListAgentVisitRequests)
	}
}
