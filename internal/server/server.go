// Package server exposes the member store and report pipeline over
// HTTP. Routing and request validation live here; the store treats this
// package as its upstream collaborator.
package server

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/rollcall/internal/logging"
	"github.com/mesh-intelligence/rollcall/pkg/types"
)

// exportScheduler triggers the fire-and-forget report run after a
// successful create.
type exportScheduler interface {
	ScheduleExport()
}

// Server wires the HTTP surface to the store and report pipeline.
type Server struct {
	app     *fiber.App
	store   types.MemberStore
	reports exportScheduler
	cfg     types.Config
	log     *slog.Logger
}

// New builds the Fiber app with middleware and routes mounted.
func New(store types.MemberStore, reports exportScheduler, cfg types.Config) *Server {
	s := &Server{
		store:   store,
		reports: reports,
		cfg:     cfg,
		log:     logging.Component("server"),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          30 * time.Second,
		IdleTimeout:           90 * time.Second,
		ErrorHandler:          s.errorHandler,
	})

	app.Use(cors.New())
	app.Use(s.requestID)

	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK"})
	})

	api := app.Group("/api/members")
	api.Get("/", s.listMembers)
	api.Get("/:id", s.checkRegistration)
	api.Post("/", s.createMember)
	api.Put("/:id", s.updateMember)
	api.Delete("/:id", s.deleteMember)

	s.app = app
	return s
}

// App exposes the Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on the configured port, blocking until shutdown.
func (s *Server) Listen() error {
	port := s.cfg.Port
	if port == 0 {
		port = 3000
	}
	s.log.Info("listening", "port", port)
	return s.app.Listen(":" + strconv.Itoa(port))
}

// Shutdown drains connections within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// requestID tags each request for log correlation and records latency.
func (s *Server) requestID(c *fiber.Ctx) error {
	id := c.Get("X-Request-ID")
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("X-Request-ID", id)
	c.Locals("reqid", id)

	start := time.Now()
	err := c.Next()
	s.log.Info("request",
		"id", id,
		"method", c.Method(),
		"path", c.OriginalURL(),
		"status", c.Response().StatusCode(),
		"dur", time.Since(start),
	)
	return err
}

// errorHandler maps store and routing errors to the response envelope.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
	case errors.Is(err, types.ErrMemberNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, types.ErrInvalidID):
		status = fiber.StatusBadRequest
	}

	if status == fiber.StatusInternalServerError {
		s.log.Error("request failed", "path", c.OriginalURL(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}
