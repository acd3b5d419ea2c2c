package router

import (
	"github.com/labstack/echo/v4"

	"foodlink/internal/adapter/api/handler"
	"foodlink/internal/adapter/api/middleware"
)

func Setup(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	chatHandler *handler.ChatHandler,
	userHandler *handler.UserHandler,
	listingHandler *handler.ListingHandler,
	wsHandler *handler.WebSocketHandler,
) {
	SetupChatRouter(e, chatHandler, authMiddleware)
	SetupUserRouter(e, userHandler, authMiddleware)
	SetupListingRouter(e, listingHandler, authMiddleware)
	SetupWebSocketRouter(e, wsHandler)
}
