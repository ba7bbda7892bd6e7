package routes

import (
	"io"

	"github.com/gin-gonic/gin"

	"realty_hub/internal/auth"
	"realty_hub/internal/authz"
	"realty_hub/internal/config"
	"realty_hub/internal/controllers"
	"realty_hub/internal/logger"
	"realty_hub/internal/middleware"
	"realty_hub/internal/store"
)

// Deps is everything the router needs from process startup.
type Deps struct {
	Config    *config.Config
	Store     *store.Store
	Authn     *auth.Authenticator
	Hasher    auth.Hasher
	LogOutput io.Writer
}

// groups hands the per-resource route files the two mount points: public
// routes resolve a caller when a token is sent, protected routes require one.
type groups struct {
	public    *gin.RouterGroup
	protected *gin.RouterGroup
}

func SetupRouter(d Deps) *gin.Engine {
	if !d.Config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	controllers.RegisterValidators()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(logger.RequestLogger(d.LogOutput))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestTimeout(d.Config.Server.RequestTimeout))
	r.Use(middleware.TokenRefresher(d.Authn.Tokens()))
	r.MaxMultipartMemory = d.Config.Uploads.MaxBytes

	ctl := controllers.New(d.Store, d.Authn, authz.NewEngine(), d.Hasher, d.Config.Uploads)

	r.GET("/health", ctl.Health)
	r.Static("/static", d.Config.Uploads.Dir)

	g := groups{
		public:    r.Group("/", middleware.OptionalAuth(d.Authn)),
		protected: r.Group("/", middleware.RequireAuth(d.Authn)),
	}

	AuthRoutes(r, g, ctl)
	UserRoutes(g, ctl)
	PropertyRoutes(g, ctl)
	VisitRequestRoutes(g, ctl)

	return r
}
