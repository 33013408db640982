package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"musky-bot/internal/ledger"
)

type referralRequest struct {
	ReferrerID int64 `json:"referrer_id"`
	ReferredID int64 `json:"referred_id"`
}

func (s *Server) processReferral(c *fiber.Ctx) error {
	var req referralRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.ReferrerID == 0 || req.ReferredID == 0 {
		return badRequest(c, "referrer_id and referred_id are required")
	}
	if req.ReferrerID == req.ReferredID {
		return badRequest(c, "self-referral is not allowed")
	}

	credited, err := s.ledger.CreditReferral(c.Context(), req.ReferrerID, req.ReferredID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return notFound(c, "referrer")
		}
		return serverError(c, "failed to process referral", err)
	}

	referrer, err := s.ledger.Get(c.Context(), req.ReferrerID)
	if err != nil {
		return serverError(c, "failed to load referrer", err)
	}
	return c.JSON(fiber.Map{
		"success":            true,
		"credited":           credited,
		"new_referral_count": referrer.ReferralCount,
	})
}

func (s *Server) referralsOf(c *fiber.Ctx) error {
	referrerID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid user id")
	}

	users, err := s.ledger.ReferralsOf(c.Context(), referrerID)
	if err != nil {
		return serverError(c, "failed to list referrals", err)
	}

	referrals := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		referrals = append(referrals, fiber.Map{
			"user_id":     u.UserID,
			"username":    u.Username,
			"mining_rate": u.MiningRate,
			"joined_at":   u.JoinedAt,
		})
	}
	return c.JSON(referrals)
}
