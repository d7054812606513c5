// Package server assembles the fiber application for the Q-Bank API.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"qbank/internal/handler"
	"qbank/internal/middleware"
	"qbank/internal/validation"
)

type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
	// Swagger mounts the API docs under /swagger.
	Swagger bool
}

type Handlers struct {
	Sessions *handler.SessionHandler
	Health   *handler.HealthHandler
}

// New builds the API app with its middleware chain and routes.
func New(opts Options, h Handlers, v *validation.Validator) *fiber.App {
	app := newApp(opts)

	if opts.Swagger {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}
	if h.Health != nil {
		app.Get("/health", h.Health.Health)
	}

	api := app.Group("/api")
	api.Post("/sessions", h.Sessions.CreateSession)

	vm := middleware.NewValidationMiddleware(v)
	s := api.Group("/sessions/:id", vm.ValidateSessionID())
	s.Get("/", h.Sessions.GetSession)
	s.Delete("/", h.Sessions.DeleteSession)
	s.Put("/credential", h.Sessions.SetCredential)
	s.Put("/settings", h.Sessions.UpdateSettings)
	s.Put("/draft", h.Sessions.SetDraft)
	s.Post("/document", h.Sessions.UploadDocument)
	s.Post("/turns", h.Sessions.SendTurn)
	s.Get("/messages", h.Sessions.GetMessages)
	s.Get("/questions", h.Sessions.GetQuestions)
	s.Delete("/questions", h.Sessions.ClearQuestions)
	s.Delete("/questions/:questionId", h.Sessions.RemoveQuestion)
	s.Get("/export", h.Sessions.Export)

	return app
}

// NewExtractor builds the standalone text extraction app.
func NewExtractor(opts Options, h *handler.ExtractHandler) *fiber.App {
	app := newApp(opts)
	app.Post("/extract-text", h.ExtractText)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	return app
}

func newApp(opts Options) *fiber.App {
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 20 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 90 * time.Second
	}
	if opts.BodyLimit == 0 {
		opts.BodyLimit = 25 * 1024 * 1024
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:           opts.ReadTimeout,
		WriteTimeout:          opts.WriteTimeout,
		IdleTimeout:           20 * time.Second,
		BodyLimit:             opts.BodyLimit,
		ErrorHandler:          middleware.ErrorHandler(),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())
	return app
}
