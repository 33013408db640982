package api

import (
	"github.com/gofiber/fiber/v2"
)

type broadcastRequest struct {
	AdminID int64  `json:"admin_id"`
	Message string `json:"message"`
}

func (s *Server) adminBroadcast(c *fiber.Ctx) error {
	var req broadcastRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !s.isAdmin(req.AdminID) {
		return forbidden(c)
	}
	if req.Message == "" {
		return badRequest(c, "message is required")
	}

	result, err := s.broadcaster.SendText(c.Context(), req.Message)
	if err != nil {
		return serverError(c, "failed to broadcast", err)
	}
	return c.JSON(fiber.Map{
		"status": "success",
		"total":  result.Total,
		"sent":   result.Sent,
		"failed": result.Failed,
	})
}
