package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"realty_hub/internal/authz"
)

func (ctl *Controller) AddFavorite(c *gin.Context) {
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
	if _, err := ctl.store.GetProperty(ctx, propertyID); err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.FavoriteManage, authz.ForPathUser(userID)); err != nil {
		respondError(c, err)
		return
	}

	fav, err := ctl.store.AddFavorite(ctx, userID, propertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"favorite": fav})
}

func (ctl *Controller) RemoveFavorite(c *gin.Context) {
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
	if _, err := ctl.authorize(c, authz.FavoriteManage, authz.ForPathUser(userID)); err != nil {
		respondError(c, err)
		return
	}
	if err := ctl.store.RemoveFavorite(c.Request.Context(), userID, propertyID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Property removed from favorites"})
}

// ListFavorites returns the properties the user in the path has favorited.
func (ctl *Controller) ListFavorites(c *gin.Context) {
	userID, err := uintParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := ctl.authorize(c, authz.FavoriteManage, authz.ForPathUser(userID)); err != nil {
		respondError(c, err)
		return
	}
	props, err := ctl.store.ListFavoriteProperties(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newPropertyViews(props)})
}
