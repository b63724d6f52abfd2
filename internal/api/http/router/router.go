// Package router wires the HTTP handlers and middleware into a gin engine.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/alumnihub/membership-server/internal/api/http/handler"
	"github.com/alumnihub/membership-server/internal/api/http/middleware"
	"github.com/alumnihub/membership-server/internal/logger"
	"github.com/alumnihub/membership-server/internal/model"
	"github.com/alumnihub/membership-server/internal/service"
)

// Router assembles the membership HTTP surface.
type Router struct {
	registration *service.Registration
	lifecycle    *service.Lifecycle
	reset        *service.Reset
	session      *service.Session
	tokens       model.TokenManager
	maxBodySize  int64
	logger       *logger.Logger
}

// New creates a new Router instance.
func New(
	registration *service.Registration,
	lifecycle *service.Lifecycle,
	reset *service.Reset,
	session *service.Session,
	tokens model.TokenManager,
	maxBodySize int64,
	logger *logger.Logger,
) *Router {
	return &Router{
		registration: registration,
		lifecycle:    lifecycle,
		reset:        reset,
		session:      session,
		tokens:       tokens,
		maxBodySize:  maxBodySize,
		logger:       logger,
	}
}

// Register builds the gin engine with all routes and middleware attached.
func (r *Router) Register() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.NewLogging(r.logger).Handle,
	)
	engine.MaxMultipartMemory = r.maxBodySize

	authenticate := middleware.NewAuthenticate(r.tokens, r.logger)

	authHandler := handler.NewAuth(r.registration, r.session, r.reset, r.logger)
	adminHandler := handler.NewAdmin(r.lifecycle, r.logger)

	api := engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/forgot-password", authHandler.ForgotPassword)
		auth.POST("/reset-password", authHandler.ResetPassword)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login", authHandler.AdminLogin)

		accounts := admin.Group("/accounts", authenticate.Handle)
		{
			accounts.GET("", adminHandler.List)
			accounts.GET("/:id/document", adminHandler.Document)
			accounts.POST("/:id/approve", adminHandler.Approve)
			accounts.POST("/:id/block", adminHandler.Block)
			accounts.DELETE("/:id", adminHandler.Delete)
		}
	}

	return engine
}
