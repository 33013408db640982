package api

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"musky-bot/internal/ledger"
	"musky-bot/internal/models"
)

func (s *Server) isAdmin(adminID int64) bool {
	return adminID != 0 && adminID == s.cfg.AdminID
}

type createTaskRequest struct {
	AdminID int64 `json:"admin_id"`
	models.Task
}

func (s *Server) createTask(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !s.isAdmin(req.AdminID) {
		return forbidden(c)
	}
	if req.Title == "" {
		return badRequest(c, "title is required")
	}

	task := req.Task
	task.ID = 0
	if err := s.ledger.CreateTask(c.Context(), &task); err != nil {
		return serverError(c, "failed to create task", err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

type updateTaskRequest struct {
	AdminID     int64   `json:"admin_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Reward      *int64  `json:"reward"`
	Link        *string `json:"link"`
	ImageURL    *string `json:"image_url"`
	Status      *string `json:"status"`
}

func (s *Server) updateTask(c *fiber.Ctx) error {
	taskID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !s.isAdmin(req.AdminID) {
		return forbidden(c)
	}

	fields := map[string]any{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Type != nil {
		fields["type"] = *req.Type
	}
	if req.Reward != nil {
		fields["reward"] = *req.Reward
	}
	if req.Link != nil {
		fields["link"] = *req.Link
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if len(fields) == 0 {
		return badRequest(c, "no fields to update")
	}

	if err := s.ledger.UpdateTask(c.Context(), uint(taskID), fields); err != nil {
		if errors.Is(err, ledger.ErrTaskNotFound) {
			return notFound(c, "task")
		}
		return serverError(c, "failed to update task", err)
	}

	task, err := s.ledger.GetTask(c.Context(), uint(taskID))
	if err != nil {
		return serverError(c, "failed to load task", err)
	}
	return c.JSON(task)
}

type deleteTaskRequest struct {
	AdminID int64 `json:"admin_id"`
}

func (s *Server) deleteTask(c *fiber.Ctx) error {
	taskID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return badRequest(c, "invalid task id")
	}

	var req deleteTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if !s.isAdmin(req.AdminID) {
		return forbidden(c)
	}

	if err := s.ledger.DeleteTask(c.Context(), uint(taskID)); err != nil {
		if errors.Is(err, ledger.ErrTaskNotFound) {
			return notFound(c, "task")
		}
		return serverError(c, "failed to delete task", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (s *Server) activeTasks(c *fiber.Ctx) error {
	tasks, err := s.ledger.ActiveTasks(c.Context())
	if err != nil {
		return serverError(c, "failed to list tasks", err)
	}
	return c.JSON(tasks)
}
