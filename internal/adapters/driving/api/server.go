// Package api serves the HTTP JSON interface.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
	"github.com/custodia-labs/codeaid/internal/logger"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":3000"

// multipartOverhead is allowed on top of MaxFileSize for form boundaries and headers.
const multipartOverhead = 1 << 20

// Services are the core services the API exposes.
type Services struct {
	Ingest    driving.IngestService
	Ask       driving.AskService
	Documents driving.DocumentService
	Feedback  driving.FeedbackService
}

// Server is the HTTP server.
type Server struct {
	app *fiber.App
}

// NewServer creates a server with all routes registered.
func NewServer(svc Services) (*Server, error) {
	if svc.Ingest == nil || svc.Ask == nil || svc.Documents == nil || svc.Feedback == nil {
		return nil, errors.New("api: all services are required")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler,
		BodyLimit:             domain.MaxFileSize + multipartOverhead,
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
	})

	var (
		checkHandler    = NewCheckHandler()
		documentHandler = NewDocumentHandler(svc.Ingest, svc.Documents)
		askHandler      = NewAskHandler(svc.Ask)
		feedbackHandler = NewFeedbackHandler(svc.Feedback)
		check           = app.Group("/check")
		apiv1           = app.Group("/api")
	)

	check.Get("/healthy", checkHandler.HandleHealthy)

	apiv1.Post("/upload", documentHandler.HandleUpload)
	apiv1.Get("/documents", documentHandler.HandleList)
	apiv1.Delete("/documents/:id", documentHandler.HandleDelete)
	apiv1.Get("/documents/:id/chunks", documentHandler.HandleChunks)
	apiv1.Post("/ask", askHandler.HandleAsk)
	apiv1.Post("/feedback", feedbackHandler.HandleSubmit)
	apiv1.Get("/feedback", feedbackHandler.HandleList)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route "+c.Method()+" "+c.Path()+" not found")
	})

	return &Server{app: app}, nil
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", addr)
		errCh <- s.app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("HTTP server shutting down")
		return s.app.ShutdownWithTimeout(5 * time.Second)
	}
}
