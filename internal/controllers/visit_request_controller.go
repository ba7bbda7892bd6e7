package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"realty_hub/internal/apperr"
	"realty_hub/internal/authz"
	"realty_hub/internal/middleware"
	"realty_hub/internal/models"
)

type visitRequestInput struct {
	Email     string    `json:"email" binding:"required,email"`
	Message   *string   `json:"message"`
	VisitDate time.Time `json:"visit_date" binding:"required"`
	VisitTime time.Time `json:"visit_time" binding:"required"`
}

type visitStatusInput struct {
	Status string `json:"status" form:"status"`
}

// CreateVisitRequest books a viewing of the property in the path for the caller.
func (ctl *Controller) CreateVisitRequest(c *gin.Context) {
	propertyID, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	prop, err := ctl.store.GetProperty(ctx, propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	caller, err := ctl.authorize(c, authz.VisitCreate, authz.OwnedBy(prop.AgentID))
	if err != nil {
		respondError(c, err)
		return
	}

	var input visitRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	vr := models.VisitRequest{
		PropertyID: prop.ID,
		UserID:     caller.UserID,
		Email:      input.Email,
		Message:    input.Message,
		VisitDate:  input.VisitDate,
		VisitTime:  input.VisitTime,
		Status:     models.VisitPending,
	}
	if err := ctl.store.CreateVisitRequest(ctx, &vr); err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{"visit_request_id": vr.ID, "property_id": prop.ID}).Info("visit requested")
	c.JSON(http.StatusCreated, gin.H{"visit_request": vr})
}

// ListPropertyVisitRequests is the agent's view of requests on one property.
func (ctl *Controller) ListPropertyVisitRequests(c *gin.Context) {
	userID, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	propertyID, err := uintParam(c, "property_id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	prop, err := ctl.store.GetProperty(ctx, propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	res := authz.Resource{OwnerID: prop.AgentID, PathUserID: &userID}
	if _, err := ctl.authorize(c, authz.VisitListByProperty, res); err != nil {
		respondError(c, err)
		return
	}

	requests, err := ctl.store.ListVisitRequestsByProperty(ctx, prop.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

// ListUserVisitRequests lists the requests the user in the path has made.
func (ctl *Controller) ListUserVisitRequests(c *gin.Context) {
	userID, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.VisitListOwn, authz.ForPathUser(userID)); err != nil {
		respondError(c, err)
		return
	}
	requests, err := ctl.store.ListVisitRequestsByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

// ListAgentVisitRequests lists requests across every property of the agent.
func (ctl *Controller) ListAgentVisitRequests(c *gin.Context) {
	userID, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.VisitListAgent, authz.ForPathUser(userID)); err != nil {
		respondError(c, err)
		return
	}
	requests, err := ctl.store.ListVisitRequestsForAgent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

// UpdateVisitRequestStatus accepts or declines a pending request. The new
// status comes from ?status= or a JSON body.
func (ctl *Controller) UpdateVisitRequestStatus(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	raw := c.Query("status")
	if raw == "" && c.Request.Body != nil && c.Request.Body != http.NoBody {
		var input visitStatusInput
		// A chunked request can still carry an empty body.
		if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
			respondError(c, bindError(err))
			return
		}
		raw = input.Status
	}
	if strings.TrimSpace(raw) == "" {
		respondError(c, apperr.Validation("status is required"))
		return
	}
	next := models.VisitStatus(strings.ToLower(strings.TrimSpace(raw)))

	ctx := c.Request.Context()
	vr, err := ctl.store.GetVisitRequest(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	prop, err := ctl.store.GetProperty(ctx, vr.PropertyID)
	if err != nil {
		respondError(c, err)
		return
	}

	updated, err := ctl.engine.Transition(middleware.CurrentIdentity(c), *vr, *prop, next)
	if err != nil {
		respondError(c, err)
		return
	}
	saved, err := ctl.store.UpdateVisitRequestStatus(ctx, vr.ID, vr.Status, updated.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"visit_request_id": saved.ID,
		"from":             vr.Status,
		"to":               saved.Status,
	}).Info("visit request status changed")
	c.JSON(http.StatusOK, gin.H{"visit_request": saved})
}
