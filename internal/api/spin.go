package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"musky-bot/internal/ledger"
	"musky-bot/internal/spin"
)

type spinRequest struct {
	UserID int64 `json:"user_id"`
}

func (s *Server) spin(c *fiber.Ctx) error {
	var req spinRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserID == 0 {
		return badRequest(c, "user_id is required")
	}

	prize := spin.Select(s.roll())

	user, err := s.ledger.ApplySpin(c.Context(), req.UserID, prize)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			return notFound(c, "user")
		case errors.Is(err, ledger.ErrNoEnergy):
			return badRequest(c, "not enough energy")
		}
		return serverError(c, "failed to process spin", err)
	}

	return c.JSON(fiber.Map{
		"prize_type": prize.Type,
		"amount":     prize.Amount,
		"new_energy": user.Energy,
	})
}
