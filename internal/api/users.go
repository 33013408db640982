package api

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"

	"musky-bot/internal/ledger"
)

type createUserRequest struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

func (s *Server) createUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserID == 0 {
		return badRequest(c, "user_id is required")
	}

	user, err := s.ledger.Create(c.Context(), req.UserID, req.Username)
	if err != nil {
		return serverError(c, "failed to create user", err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (s *Server) getUser(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	user, err := s.ledger.Get(c.Context(), userID)
	if err != nil {
		return serverError(c, "failed to get user", err)
	}
	if user == nil {
		return notFound(c, "user")
	}
	return c.JSON(user)
}

func (s *Server) leaderboard(c *fiber.Ctx) error {
	users, err := s.ledger.Leaderboard(c.Context(), 10)
	if err != nil {
		return serverError(c, "failed to load leaderboard", err)
	}
	return c.JSON(users)
}

type solanaAddressRequest struct {
	UserID        int64  `json:"user_id"`
	SolanaAddress string `json:"solana_address"`
}

func (s *Server) updateSolanaAddress(c *fiber.Ctx) error {
	var req solanaAddressRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.UserID == 0 || req.SolanaAddress == "" {
		return badRequest(c, "user_id and solana_address are required")
	}
	if utf8.RuneCountInString(req.SolanaAddress) > 100 {
		return badRequest(c, "solana_address must be at most 100 characters")
	}

	err := s.ledger.SetPayoutAddress(c.Context(), req.UserID, req.SolanaAddress)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return notFound(c, "user")
		}
		return serverError(c, "failed to update solana address", err)
	}
	return c.JSON(fiber.Map{"success": true, "solana_address": req.SolanaAddress})
}
