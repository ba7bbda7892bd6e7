package routes

import (
	"realty_hub/internal/controllers"
)

func VisitRequestRoutes(g groups, ctl *controllers.Controller) {
	g.protected.POST("/properties/:id/visit-requests", ctl.CreateVisitRequest)
	g.protected.PUT("/visit-requests/:id/status", ctl.UpdateVisitRequestStatus)
}
