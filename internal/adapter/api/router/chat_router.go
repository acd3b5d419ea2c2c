package router

import (
	"github.com/labstack/echo/v4"

	"foodlink/internal/adapter/api/handler"
	"foodlink/internal/adapter/api/middleware"
)

// SetupChatRouter sets up all room-related routes (excluding WebSocket)
func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	rooms := e.Group("/v1/rooms")
	rooms.Use(authMiddleware.Authenticate)

	// Room management
	rooms.POST("", chatHandler.CreateRoom)       // POST /v1/rooms - Open (or reuse) a room with another user
	rooms.GET("", chatHandler.ListRooms)         // GET /v1/rooms - List the caller's rooms
	rooms.GET("/:id", chatHandler.GetRoom)       // GET /v1/rooms/:id - Get a specific room
	rooms.DELETE("/:id", chatHandler.DeleteRoom) // DELETE /v1/rooms/:id - Delete a room and its messages

	// Message log
	rooms.POST("/:id/messages", chatHandler.SendMessage) // POST /v1/rooms/:id/messages - Send message
	rooms.GET("/:id/messages", chatHandler.GetMessages)  // GET /v1/rooms/:id/messages - Get room messages

	// Appointment scheduling
	rooms.PUT("/:id/appointment", chatHandler.SetAppointment) // PUT /v1/rooms/:id/appointment - Schedule the exchange
	rooms.GET("/:id/appointment", chatHandler.GetAppointment) // GET /v1/rooms/:id/appointment - Read the schedule

	// Post-exchange rating
	rooms.POST("/:id/rating", chatHandler.SubmitRating) // POST /v1/rooms/:id/rating - Rate the counterpart
}
