package handler

import (
	"github.com/labstack/echo/v4"

	"foodlink/internal/usecase"
	"foodlink/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

// GetMe returns the caller's own profile, including the gamified carbon
// savings total and average rating.
func (h *UserHandler) GetMe(c echo.Context) error {
	userID := c.Get("uid").(string)

	profile, err := h.userUseCase.GetOwnProfile(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	profile, err := h.userUseCase.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}
