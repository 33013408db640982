package api

import (
	"math/rand"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"musky-bot/internal/broadcast"
	"musky-bot/internal/config"
	"musky-bot/internal/ledger"
)

// Server is the reward service: stateless JSON handlers over the Ledger.
type Server struct {
	App         *fiber.App
	ledger      *ledger.Ledger
	cfg         *config.Config
	broadcaster *broadcast.Broadcaster
	roll        func() float64
}

func NewServer(l *ledger.Ledger, cfg *config.Config, broadcaster *broadcast.Broadcaster) *Server {
	s := &Server{
		App:         fiber.New(),
		ledger:      l,
		cfg:         cfg,
		broadcaster: broadcaster,
		roll:        rand.Float64,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.App.Use(cors.New())

	s.App.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to Musky Mini App Backend"})
	})

	s.App.Post("/users", s.createUser)
	s.App.Get("/users/:id", s.getUser)
	s.App.Get("/leaderboard", s.leaderboard)

	s.App.Post("/mining/update", s.miningUpdate)
	s.App.Post("/mining/tap", s.miningTap)
	s.App.Post("/convert/musky-to-solana", s.convert)
	s.App.Post("/energy/purchase", s.purchaseEnergy)
	s.App.Post("/spin", s.spin)

	s.App.Post("/referral", s.processReferral)
	s.App.Get("/referrals/:id", s.referralsOf)
	s.App.Post("/solana-address", s.updateSolanaAddress)

	s.App.Post("/tasks/admin/create", s.createTask)
	s.App.Put("/tasks/admin/:id", s.updateTask)
	s.App.Delete("/tasks/admin/:id", s.deleteTask)
	s.App.Get("/tasks/active", s.activeTasks)

	s.App.Post("/admin/broadcast", s.adminBroadcast)
}

func (s *Server) Listen(addr string) error {
	return s.App.Listen(addr)
}

func forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "not authorized"})
}

func notFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": what + " not found"})
}

func badRequest(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": detail})
}

func serverError(c *fiber.Ctx, detail string, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": detail,
		"cause": err.Error(),
	})
}
