package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"realty_hub/internal/apperr"
	"realty_hub/internal/authz"
	"realty_hub/internal/geo"
	"realty_hub/internal/models"
	"realty_hub/internal/store"
)

const defaultRadiusKm = 10

type propertyInput struct {
	Title        string          `json:"title" binding:"required"`
	Description  string          `json:"description"`
	Price        float64         `json:"price" binding:"gte=0"`
	Location     string          `json:"location" binding:"required"`
	PropertyType string          `json:"property_type" binding:"required,oneof=house apartment"`
	Bedrooms     int             `json:"bedrooms" binding:"gte=0"`
	Bathrooms    int             `json:"bathrooms" binding:"gte=0"`
	Size         float64         `json:"size" binding:"gte=0"`
	Status       string          `json:"status" binding:"omitempty,oneof=available sold"`
	Geometry     json.RawMessage `json:"geometry"`
}

type propertyQuery struct {
	pageQuery
	Location     string   `form:"location"`
	MinPrice     *float64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice     *float64 `form:"max_price" binding:"omitempty,gte=0"`
	PropertyType string   `form:"property_type" binding:"omitempty,oneof=house apartment"`
	Bedrooms     *int     `form:"bedrooms" binding:"omitempty,gte=0"`
	Bathrooms    *int     `form:"bathrooms" binding:"omitempty,gte=0"`
	Status       string   `form:"status" binding:"omitempty,oneof=available sold"`
	Near         string   `form:"near"`
	RadiusKm     float64  `form:"radius_km" binding:"gte=0"`
}

// propertyView is the API shape of a property: geometry as GeoJSON plus the
// listing agent and images.
type propertyView struct {
	models.Property
	Geometry json.RawMessage    `json:"geometry"`
	Agent    *models.PublicUser `json:"agent,omitempty"`
	Images   []models.Image     `json:"images"`
}

func newPropertyView(p models.Property) propertyView {
	v := propertyView{Property: p, Images: p.Images}
	if v.Images == nil {
		v.Images = []models.Image{}
	}
	if p.Agent != nil {
		pub := p.Agent.Public()
		v.Agent = &pub
	}
	if g, err := geo.WKBToGeoJSON(p.Geometry); err != nil {
		logrus.WithError(err).WithField("property_id", p.ID).Warn("stored geometry is unreadable")
	} else {
		v.Geometry = g
	}
	return v
}

func newPropertyViews(props []models.Property) []propertyView {
	out := make([]propertyView, 0, len(props))
	for _, p := range props {
		out = append(out, newPropertyView(p))
	}
	return out
}

// apply copies the input onto p. An omitted status keeps the current one and
// an omitted geometry keeps the stored point; an explicit null clears it.
func (in propertyInput) apply(p *models.Property) error {
	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price
	p.Location = in.Location
	p.PropertyType = models.PropertyType(in.PropertyType)
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.Size = in.Size
	if in.Status != "" {
		p.Status = models.ListingStatus(in.Status)
	} else if p.Status == "" {
		p.Status = models.ListingAvailable
	}
	if in.Geometry != nil {
		wkb, err := geo.PointToWKB(in.Geometry)
		if err != nil {
			return apperr.Wrap(apperr.KindValidation, "Invalid geometry: "+err.Error(), err)
		}
		p.Geometry = wkb
	}
	return nil
}

// CreateProperty lists a new property for the calling agent. Mounted both at
// /properties and /users/:id/properties; the latter must name the caller.
func (ctl *Controller) CreateProperty(c *gin.Context) {
	res := authz.Resource{}
	if c.Param("id") != "" {
		pathUser, err := uintParam(c, "id")
		if err != nil {
			respondError(c, err)
			return
		}
		res = authz.ForPathUser(pathUser)
	}
	caller, err := ctl.authorize(c, authz.PropertyCreate, res)
	if err != nil {
		respondError(c, err)
		return
	}

	var input propertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}
	prop := models.Property{AgentID: caller.UserID}
	if err := input.apply(&prop); err != nil {
		respondError(c, err)
		return
	}

	if err := ctl.store.CreateProperty(c.Request.Context(), &prop); err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{"property_id": prop.ID, "agent_id": prop.AgentID}).Info("property created")
	c.JSON(http.StatusCreated, gin.H{"property": newPropertyView(prop)})
}

// ListProperties lists and searches properties.
func (ctl *Controller) ListProperties(c *gin.Context) {
	ctl.listProperties(c, 0)
}

// ListAgentProperties lists the properties of the agent in the path.
func (ctl *Controller) ListAgentProperties(c *gin.Context) {
	agentID, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.store.GetUserByID(c.Request.Context(), agentID); err != nil {
		respondError(c, err)
		return
	}
	ctl.listProperties(c, agentID)
}

func (ctl *Controller) listProperties(c *gin.Context, agentID uint) {
	var q propertyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, bindError(err))
		return
	}
	if _, err := ctl.authorize(c, authz.PropertyRead, authz.Resource{}); err != nil {
		respondError(c, err)
		return
	}

	f := store.PropertyFilter{
		AgentID:      agentID,
		Location:     q.Location,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		PropertyType: models.PropertyType(q.PropertyType),
		Bedrooms:     q.Bedrooms,
		Bathrooms:    q.Bathrooms,
		Status:       models.ListingStatus(q.Status),
		Skip:         q.Skip,
		Limit:        q.Limit,
	}
	if q.Near != "" {
		pt, err := geo.ParseLatLng(q.Near)
		if err != nil {
			respondError(c, apperr.Wrap(apperr.KindValidation, "Invalid near: "+err.Error(), err))
			return
		}
		f.Near = &pt
		f.RadiusKm = q.RadiusKm
		if f.RadiusKm == 0 {
			f.RadiusKm = defaultRadiusKm
		}
	}

	props, err := ctl.store.ListProperties(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newPropertyViews(props)})
}

func (ctl *Controller) GetProperty(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	prop, err := ctl.store.GetProperty(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.PropertyRead, authz.OwnedBy(prop.AgentID)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": newPropertyView(*prop)})
}

// UpdateProperty replaces a listing's fields. Owner or admin only.
func (ctl *Controller) UpdateProperty(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	prop, err := ctl.store.GetProperty(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.PropertyUpdate, authz.OwnedBy(prop.AgentID)); err != nil {
		respondError(c, err)
		return
	}

	var input propertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}
	if err := input.apply(prop); err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.store.UpdateProperty(ctx, prop); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"property": newPropertyView(*prop)})
}

func (ctl *Controller) DeleteProperty(c *gin.Context) {
	id, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	prop, err := ctl.store.GetProperty(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.PropertyDelete, authz.OwnedBy(prop.AgentID)); err != nil {
		respondError(c, err)
		return
	}

	images, err := ctl.store.DeleteProperty(ctx, prop.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	ctl.removeImageFiles(images)

	logrus.WithField("property_id", prop.ID).Info("property deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}
