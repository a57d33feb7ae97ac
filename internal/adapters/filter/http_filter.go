package filter

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/ports"
)

// AnalyzeRequest is the JSON body of POST /api/v1/analyze
type AnalyzeRequest struct {
	Sender  string `json:"sender"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Explain *bool  `json:"explain,omitempty"`
}

var _ ports.EmailFilter = (*HTTPFilter)(nil)

// HTTPFilter serves the phishing service over a JSON HTTP API
type HTTPFilter struct {
	service       *core.PhishingService
	logger        *zap.Logger
	listenAddress string
	app           *fiber.App
}

// NewHTTPFilter creates a new HTTP filter. gatherer backs /metrics and may be nil.
func NewHTTPFilter(
	service *core.PhishingService,
	logger *zap.Logger,
	listenAddress string,
	readTimeout time.Duration,
	gatherer prometheus.Gatherer,
) (*HTTPFilter, error) {
	if service == nil {
		return nil, errors.New("phishing service is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &HTTPFilter{
		service:       service,
		logger:        logger,
		listenAddress: listenAddress,
		app: fiber.New(fiber.Config{
			AppName:               "phish-guard",
			ReadTimeout:           readTimeout,
			DisableStartupMessage: true,
		}),
	}

	f.app.Get("/healthz", f.health)
	api := f.app.Group("/api/v1")
	api.Post("/analyze", f.analyze)
	if gatherer != nil {
		f.app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return f, nil
}

// App exposes the fiber application
func (f *HTTPFilter) App() *fiber.App {
	return f.app
}

func (f *HTTPFilter) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"explainer": f.service.HasExplainer(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (f *HTTPFilter) analyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	candidate := core.EmailCandidate{
		Sender:  req.Sender,
		Subject: req.Subject,
		Body:    req.Body,
	}
	opts := core.AnalyzeOptions{}
	if req.Explain != nil {
		opts.ForceExplain = *req.Explain
		opts.SkipExplain = !*req.Explain
	}

	report, err := f.ProcessEmail(c.UserContext(), candidate, opts)
	switch {
	case errors.Is(err, ErrInvalidCandidate):
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrClassifierUnavailable):
		return errorResponse(c, fiber.StatusServiceUnavailable, "classifier unavailable")
	case err != nil:
		return errorResponse(c, fiber.StatusInternalServerError, "analysis failed")
	}

	return c.JSON(report)
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// ProcessEmail validates and analyzes a candidate
func (f *HTTPFilter) ProcessEmail(ctx context.Context, candidate core.EmailCandidate, opts core.AnalyzeOptions) (*core.AnalysisReport, error) {
	if err := ValidateCandidate(candidate); err != nil {
		return nil, err
	}

	report, err := f.service.Analyze(ctx, candidate, opts)
	if err != nil {
		f.logger.Error("Failed to analyze email", zap.Error(err))
		return nil, err
	}

	f.logger.Info("Analyzed email",
		zap.String("report_id", report.ID),
		zap.String("domain", report.Verdict.SenderDomain),
		zap.Bool("is_phishing", report.Verdict.IsPhishing),
		zap.String("risk_level", report.RiskLevel))

	return report, nil
}

// Start listens and serves until Stop is called
func (f *HTTPFilter) Start() error {
	f.logger.Info("Starting HTTP API", zap.String("address", f.listenAddress))
	if err := f.app.Listen(f.listenAddress); err != nil {
		return err
	}
	return nil
}

// Stop gracefully shuts the server down
func (f *HTTPFilter) Stop() error {
	return f.app.Shutdown()
}
