package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"foodlink/internal/usecase"
	"foodlink/pkg/response"
	"foodlink/pkg/utils"
)

type ChatHandler struct {
	chatUseCase   *usecase.ChatUseCase
	ratingUseCase *usecase.RatingUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase, ratingUseCase *usecase.RatingUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase:   chatUseCase,
		ratingUseCase: ratingUseCase,
	}
}

type createRoomRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	ListingID   string `json:"listing_id"`
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required"`
}

type setAppointmentRequest struct {
	Date time.Time `json:"date" validate:"required"`
}

type submitRatingRequest struct {
	// Range is enforced by the rating use case so out-of-range values get a
	// consistent INVALID_RATING code.
	Rating int `json:"rating"`
}

// CreateRoom opens (or returns) the chat room between the caller and the
// recipient for a listing.
func (h *ChatHandler) CreateRoom(c echo.Context) error {
	var req createRoomRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	room, err := h.chatUseCase.GetOrCreateRoom(c.Request().Context(), userID, usecase.CreateRoomInput{
		ListingID:   req.ListingID,
		RecipientID: req.RecipientID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, room)
}

// ListRooms returns the caller's rooms, most recently active first.
func (h *ChatHandler) ListRooms(c echo.Context) error {
	userID := c.Get("uid").(string)

	rooms, err := h.chatUseCase.ListRooms(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, utils.Paginate(rooms, utils.GetPaginationParams(c)))
}

func (h *ChatHandler) GetRoom(c echo.Context) error {
	userID := c.Get("uid").(string)

	room, err := h.chatUseCase.GetRoomByID(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, room)
}

func (h *ChatHandler) DeleteRoom(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.chatUseCase.DeleteRoom(c.Request().Context(), userID, c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, c.Param("id"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

// GetMessages returns the room's history in stable ascending order. Without
// limit/offset query params the full log is returned.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	userID := c.Get("uid").(string)

	messages, err := h.chatUseCase.GetMessages(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, utils.Paginate(messages, utils.GetPaginationParams(c)))
}

func (h *ChatHandler) SetAppointment(c echo.Context) error {
	var req setAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.chatUseCase.SetAppointment(c.Request().Context(), userID, c.Param("id"), req.Date); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"appointment_date": req.Date.Format(time.RFC3339),
	})
}

func (h *ChatHandler) GetAppointment(c echo.Context) error {
	userID := c.Get("uid").(string)

	date, err := h.chatUseCase.GetAppointment(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	if date == nil {
		return response.Success(c, map[string]interface{}{"appointment_date": nil})
	}
	return response.Success(c, map[string]interface{}{
		"appointment_date": date.Format(time.RFC3339),
	})
}

// SubmitRating rates the caller's counterpart after the appointment date
// has passed.
func (h *ChatHandler) SubmitRating(c echo.Context) error {
	var req submitRatingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	result, err := h.ratingUseCase.SubmitRating(c.Request().Context(), userID, c.Param("id"), req.Rating)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}
