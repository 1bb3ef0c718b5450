package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/krishkalaria12/imageworld/apperr"
	"github.com/krishkalaria12/imageworld/middleware"
	"github.com/krishkalaria12/imageworld/models"
	"github.com/krishkalaria12/imageworld/repository"
	"github.com/rs/zerolog"
)

// UserHandler serves the caller's own account: profile, plan upgrade and usage stats.
type UserHandler struct {
	accounts repository.AccountRepository
	logs     repository.ProcessingLogRepository
	logger   zerolog.Logger
}

func NewUserHandler(accounts repository.AccountRepository, logs repository.ProcessingLogRepository, log zerolog.Logger) *UserHandler {
	return &UserHandler{
		accounts: accounts,
		logs:     logs,
		logger:   log.With().Str("component", "user-handler").Logger(),
	}
}

func (h *UserHandler) Me(c *fiber.Ctx) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.GetByID(c.UserContext(), identity.AccountID)
	if err != nil {
		return apperr.Internal("Server error", err)
	}
	if account == nil {
		return apperr.NotFound("User not found")
	}

	return c.JSON(account.Summary())
}

type upgradeRequest struct {
	SubscriptionID string `json:"subscriptionId"`
}

// Upgrade flips the caller to the pro plan. No payment is verified.
func (h *UserHandler) Upgrade(c *fiber.Ctx) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	var input upgradeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&input); err != nil {
			return apperr.Validation("Invalid input data")
		}
	}

	account, err := h.accounts.UpdateProStatus(c.UserContext(), identity.AccountID, true, input.SubscriptionID, "active")
	if err != nil {
		return apperr.Internal("Upgrade failed", err)
	}
	if account == nil {
		return apperr.NotFound("User not found")
	}

	h.logger.Info().Str("account_id", account.ID).Msg("account upgraded to pro")

	return c.JSON(fiber.Map{
		"message": "Successfully upgraded to Pro",
		"user":    account.Summary(),
	})
}

func (h *UserHandler) DashboardStats(c *fiber.Ctx) error {
	identity, err := middleware.CurrentIdentity(c)
	if err != nil {
		return err
	}

	logs, err := h.logs.ListRecent(c.UserContext(), identity.AccountID, models.DashboardLogWindow)
	if err != nil {
		return apperr.Internal("Failed to fetch dashboard stats", err)
	}

	account, err := h.accounts.GetByID(c.UserContext(), identity.AccountID)
	if err != nil {
		return apperr.Internal("Failed to fetch dashboard stats", err)
	}

	isPro := account != nil && account.IsPro
	return c.JSON(models.BuildDashboardStats(logs, isPro))
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
