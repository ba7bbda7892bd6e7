package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"realty_hub/internal/apperr"
	"realty_hub/internal/auth"
	"realty_hub/internal/authz"
	"realty_hub/internal/config"
	"realty_hub/internal/middleware"
	"realty_hub/internal/store"
)

// Controller holds the collaborators every handler needs.
type Controller struct {
	store   *store.Store
	authn   *auth.Authenticator
	engine  *authz.Engine
	hasher  auth.Hasher
	uploads config.UploadConfig
}

func New(st *store.Store, authn *auth.Authenticator, engine *authz.Engine, hasher auth.Hasher, uploads config.UploadConfig) *Controller {
	return &Controller{
		store:   st,
		authn:   authn,
		engine:  engine,
		hasher:  hasher,
		uploads: uploads,
	}
}

func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// uintParam parses a positive integer path parameter.
func uintParam(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, apperr.Validation("Invalid " + name)
	}
	return uint(v), nil
}

// authorize resolves the caller from the context and asks the engine.
func (ctl *Controller) authorize(c *gin.Context, action authz.Action, res authz.Resource) (*auth.Identity, error) {
	id := middleware.CurrentIdentity(c)
	if err := ctl.engine.Authorize(id, action, res); err != nil {
		return nil, err
	}
	return id, nil
}

// Health reports whether the database is reachable.
func (ctl *Controller) Health(c *gin.Context) {
	if err := ctl.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
