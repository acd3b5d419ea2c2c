package router

import (
	"github.com/labstack/echo/v4"

	"foodlink/internal/adapter/api/handler"
	"foodlink/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, listingHandler *handler.ListingHandler, authMiddleware *middleware.AuthMiddleware) {
	listings := e.Group("/v1/listings")
	listings.Use(authMiddleware.Authenticate)

	listings.GET("/:id", listingHandler.GetListing)
}
