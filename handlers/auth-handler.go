package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/krishkalaria12/imageworld/apperr"
	"github.com/krishkalaria12/imageworld/auth"
	"github.com/krishkalaria12/imageworld/models"
)

type sessionResponse struct {
	User  models.AccountSummary `json:"user"`
	Token string                `json:"token"`
}

type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	input := new(auth.RegisterInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input data")
	}

	session, err := h.auth.Register(c.UserContext(), *input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(sessionResponse{
		User:  session.Account.Summary(),
		Token: session.Token,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	input := new(auth.LoginInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Validation("Invalid input data")
	}

	session, err := h.auth.Login(c.UserContext(), *input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(sessionResponse{
		User:  session.Account.Summary(),
		Token: session.Token,
	})
}
