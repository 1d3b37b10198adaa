// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"careauth/internal/delivery/api/router/handler"
	"careauth/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// legacyKindPaths are path segments kept from earlier clients.
var legacyKindPaths = map[string]entity.Kind{
	"doctor":  entity.KindProvider,
	"patient": entity.KindRecipient,
}

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/:kind/register", r.accountHandler.Register)
		authGroup.POST("/:kind/login", r.accountHandler.Login)

		// Static segments take precedence over :kind in echo's router.
		for path, kind := range legacyKindPaths {
			authGroup.POST("/"+path+"/register", r.accountHandler.RegisterAs(kind))
			authGroup.POST("/"+path+"/login", r.accountHandler.LoginAs(kind))
		}
	}
}
