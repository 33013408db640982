package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"musky-bot/internal/ledger"
)

type miningUpdateRequest struct {
	UserID int64 `json:"user_id"`
	Amount int64 `json:"amount"`
}

func (s *Server) miningUpdate(c *fiber.Ctx) error {
	var req miningUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserID == 0 {
		return badRequest(c, "user_id is required")
	}
	if req.Amount < 0 {
		return badRequest(c, "amount must not be negative")
	}

	newBalance, err := s.ledger.AddBalance(c.Context(), req.UserID, req.Amount)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return notFound(c, "user")
		}
		return serverError(c, "failed to update balance", err)
	}
	return c.JSON(fiber.Map{"success": true, "new_balance": newBalance})
}

type tapRequest struct {
	UserID int64 `json:"user_id"`
}

func (s *Server) miningTap(c *fiber.Ctx) error {
	var req tapRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserID == 0 {
		return badRequest(c, "user_id is required")
	}

	user, err := s.ledger.Tap(c.Context(), req.UserID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrNotFound):
			return notFound(c, "user")
		case errors.Is(err, ledger.ErrTapCooldown):
			return badRequest(c, "tap cooldown not finished")
		case errors.Is(err, ledger.ErrNoEnergy):
			return badRequest(c, "no energy left")
		}
		return serverError(c, "failed to process tap", err)
	}
	return c.JSON(fiber.Map{"success": true, "new_balance": user.Balance, "new_energy": user.Energy})
}

type convertRequest struct {
	UserID int64 `json:"user_id"`
	Amount int64 `json:"amount"`
}

func (s *Server) convert(c *fiber.Ctx) error {
	var req convertRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserID == 0 {
		return badRequest(c, "user_id is required")
	}

	user, err := s.ledger.Convert(c.Context(), req.UserID, req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrBelowMinimum):
			return badRequest(c, "amount below minimum conversion")
		case errors.Is(err, ledger.ErrNotFound):
			return notFound(c, "user")
		case errors.Is(err, ledger.ErrInsufficientBalance):
			return badRequest(c, "insufficient MUSKY balance")
		}
		return serverError(c, "failed to convert", err)
	}
	return c.JSON(fiber.Map{
		"success":            true,
		"new_musky_balance":  user.Balance,
		"new_solana_balance": user.SolanaBalance,
	})
}

type energyPurchaseRequest struct {
	UserID      int64  `json:"user_id"`
	PaymentType string `json:"payment_type"`
	Amount      int    `json:"amount"`
}

func (s *Server) purchaseEnergy(c *fiber.Ctx) error {
	var req energyPurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserID == 0 {
		return badRequest(c, "user_id is required")
	}
	if req.Amount <= 0 {
		return badRequest(c, "amount must be positive")
	}

	newEnergy, err := s.ledger.PurchaseEnergy(c.Context(), req.UserID, req.Amount, time.Now())
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return notFound(c, "user")
		}
		return serverError(c, "failed to purchase energy", err)
	}
	return c.JSON(fiber.Map{"success": true, "new_energy": newEnergy})
}
