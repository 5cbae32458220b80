package httpapi

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/mikey/llm-reply-agent/internal/core"
)

// submitRequest is the ingress payload for one employer message.
type submitRequest struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// outcomeResponse is the wire form of a ProcessingOutcome.
type outcomeResponse struct {
	CorrelationID             string                `json:"correlation_id"`
	Status                    string                `json:"status"`
	Response                  string                `json:"response"`
	Category                  string                `json:"category"`
	EvaluatorScore            float64               `json:"evaluator_score"`
	Scores                    []core.CriterionScore `json:"scores,omitempty"`
	Iterations                int                   `json:"iterations"`
	HumanInterventionRequired bool                  `json:"human_intervention_required"`
	Notifications             []core.EventKind      `json:"notifications"`
	PendingID                 string                `json:"pending_id,omitempty"`
}

func toOutcomeResponse(outcome *core.ProcessingOutcome) outcomeResponse {
	resp := outcomeResponse{
		CorrelationID:             outcome.CorrelationID,
		Status:                    string(outcome.Status),
		Response:                  outcome.Response,
		Category:                  string(outcome.Category),
		Iterations:                outcome.Iterations,
		HumanInterventionRequired: outcome.HumanInterventionRequired,
		Notifications:             outcome.Notifications,
		PendingID:                 outcome.PendingID,
	}
	if outcome.Evaluation != nil {
		resp.EvaluatorScore = outcome.Evaluation.Aggregate
		resp.Scores = outcome.Evaluation.Scores.Breakdown()
	}
	return resp
}

// Server is the HTTP ingress surface, implementing ports.Ingress.
type Server struct {
	app           *fiber.App
	service       *core.ReplyAgentService
	scenarios     *core.ScenarioRunner
	pending       *core.PendingStore
	listenAddress string
	recentLimit   int
	logger        *zap.Logger
}

// NewServer creates the HTTP surface and registers its routes.
func NewServer(
	service *core.ReplyAgentService,
	scenarios *core.ScenarioRunner,
	pending *core.PendingStore,
	listenAddress string,
	recentLimit int,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		// One full loop can take several LLM round trips.
		WriteTimeout: 120 * time.Second,
	})
	app.Use(recover.New())

	s := &Server{
		app:           app,
		service:       service,
		scenarios:     scenarios,
		pending:       pending,
		listenAddress: listenAddress,
		recentLimit:   recentLimit,
		logger:        logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Post("/messages", s.handleSubmit)
	s.app.Get("/events", s.handleEvents)
	s.app.Get("/health", s.handleHealth)
	s.app.Get("/scenarios", s.handleListScenarios)
	s.app.Post("/scenarios/:id/run", s.handleRunScenario)
	s.app.Get("/pending", s.handleListPending)
	s.app.Post("/pending/:id/resolve", s.handleResolvePending)
}

// Start begins serving in the background.
func (s *Server) Start() error {
	go func() {
		if err := s.app.Listen(s.listenAddress); err != nil {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()
	s.logger.Info("HTTP ingress listening", zap.String("address", s.listenAddress))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() error {
	return s.app.ShutdownWithTimeout(10 * time.Second)
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// handleSubmit handles POST /messages
func (s *Server) handleSubmit(c *fiber.Ctx) error {
	var req submitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	outcome, err := s.service.Submit(c.Context(), req.Sender, req.Message)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		s.logger.Error("Submit failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to process message",
		})
	}

	return c.JSON(toOutcomeResponse(outcome))
}

// handleEvents handles GET /events
func (s *Server) handleEvents(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", s.recentLimit)
	events, err := s.service.RecentEvents(c.Context(), limit)
	if err != nil {
		s.logger.Error("Failed to read journal", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read events",
		})
	}
	return c.JSON(fiber.Map{"events": events})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// handleListScenarios handles GET /scenarios
func (s *Server) handleListScenarios(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"scenarios": s.scenarios.ScenarioIDs()})
}

// handleRunScenario handles POST /scenarios/:id/run
func (s *Server) handleRunScenario(c *fiber.Ctx) error {
	result, err := s.scenarios.Run(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, core.ErrUnknownScenario) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		s.logger.Error("Scenario run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "scenario run failed",
		})
	}
	return c.JSON(result)
}

// handleListPending handles GET /pending
func (s *Server) handleListPending(c *fiber.Ctx) error {
	openOnly := !c.QueryBool("all", false)
	return c.JSON(fiber.Map{"pending": s.pending.List(openOnly)})
}

// handleResolvePending handles POST /pending/:id/resolve
func (s *Server) handleResolvePending(c *fiber.Ctx) error {
	var req struct {
		Resolution string `json:"resolution"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	item, err := s.pending.Resolve(c.Params("id"), req.Resolution)
	if err != nil {
		if errors.Is(err, core.ErrPendingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to resolve pending escalation",
		})
	}
	return c.JSON(item)
}
