package router

import (
	"github.com/labstack/echo/v4"

	"foodlink/internal/adapter/api/handler"
	"foodlink/internal/adapter/api/middleware"
)

func SetupUserRouter(e *echo.Echo, userHandler *handler.UserHandler, authMiddleware *middleware.AuthMiddleware) {
	users := e.Group("/v1/users")
	users.Use(authMiddleware.Authenticate)

	users.GET("/me", userHandler.GetMe)
	users.GET("/:id", userHandler.GetUser)
}
