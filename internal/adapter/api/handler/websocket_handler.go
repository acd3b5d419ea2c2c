package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"foodlink/internal/infrastructure/firebase"
	ws "foodlink/internal/infrastructure/websocket"
	"foodlink/pkg/errors"
	"foodlink/pkg/logger"
)

type WebSocketHandler struct {
	wsManager  *ws.Manager
	authClient *firebase.AuthClient
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(wsManager *ws.Manager, authClient *firebase.AuthClient) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:  wsManager,
		authClient: authClient,
	}
}

// HandleWebSocket upgrades the connection and registers the client with the
// manager. Browsers cannot set headers on websocket requests, so the Firebase
// ID token travels as a query parameter instead of a bearer header.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Authentication token is required", nil)
	}

	uid, err := h.authClient.VerifyToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: uid,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	logger.Debug("WebSocket client connected: %s", uid)

	return nil
}
