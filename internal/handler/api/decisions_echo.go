package api

import (
	"time"

	"SignalPulse/internal/domain/models"
	"SignalPulse/internal/handler/ws"
	"SignalPulse/internal/service/ratelimit"
	"SignalPulse/internal/usecase"
	"SignalPulse/pkg/config"
	xhttp "SignalPulse/pkg/http"
	xlogger "SignalPulse/pkg/logger"
	"SignalPulse/pkg/util"

	"github.com/labstack/echo/v4"
)

// DecisionsEchoHandler exposes the signal engine over HTTP.
type DecisionsEchoHandler struct {
	cfg         *config.Config
	logger      *xlogger.Logger
	evaluator   *usecase.SignalEvaluator
	broadcaster *ws.Broadcaster
	limiter     *ratelimit.Limiter
}

func NewDecisionsEchoHandler(cfg *config.Config, logger *xlogger.Logger, evaluator *usecase.SignalEvaluator, broadcaster *ws.Broadcaster) *DecisionsEchoHandler {
	return &DecisionsEchoHandler{
		cfg:         cfg,
		logger:      logger,
		evaluator:   evaluator,
		broadcaster: broadcaster,
		limiter:     ratelimit.New(),
	}
}

func (h *DecisionsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/evaluate", h.Evaluate)
	g.GET("/signals/:symbol", h.LastDecision)
	g.GET("/anchors/:symbol", h.Anchor)
	g.GET("/decisions/:symbol", h.History)
	g.POST("/reset", h.Reset)

	e.GET("/ws/decisions", h.broadcaster.Handle)
	e.GET("/healthz", h.Health)
}

// Evaluate runs the full pipeline on the posted snapshots and returns
// the decision actually emitted, after stability gating and the
// correlation guard.
func (h *DecisionsEchoHandler) Evaluate(c echo.Context) error {
	req := &models.EvaluateRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if !h.limiter.Allow(req.Symbol, h.cfg.RateLimit.Capacity, h.cfg.RateLimit.RefillPerSec) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "symbol",
			"too many evaluations for this symbol", 429))
	}

	decision, err := h.evaluator.Evaluate(c.Request().Context(), req.Symbol, &req.Snapshots)
	if err != nil {
		h.logger.Error("evaluate usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, decision)
}

// LastDecision returns the cached decision without recomputation.
func (h *DecisionsEchoHandler) LastDecision(c echo.Context) error {
	req := &models.LastDecisionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	decision, ok, err := h.evaluator.Last(c.Request().Context(), req.Symbol)
	if err != nil {
		h.logger.Error("last decision lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no decision for %s", req.Symbol))
	}
	return xhttp.SuccessResponse(c, decision)
}

// Anchor returns the correlation anchor recorded for a symbol.
func (h *DecisionsEchoHandler) Anchor(c echo.Context) error {
	req := &models.AnchorRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	anchor, ok := h.evaluator.Anchor(req.Symbol)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no active anchor for %s", req.Symbol))
	}
	return xhttp.SuccessResponse(c, anchor)
}

// History reads journaled decisions for a symbol.
func (h *DecisionsEchoHandler) History(c echo.Context) error {
	req := &models.DecisionHistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	from := util.ParseTimeDefault(req.From, now.Add(-24*time.Hour))
	to := util.ParseTimeDefault(req.To, now)

	rows, err := h.evaluator.History(c.Request().Context(), req.Symbol, from, to, req.Limit)
	if err != nil {
		h.logger.Error("decision history error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Reset clears all stability state. Intended for testing and restarts.
func (h *DecisionsEchoHandler) Reset(c echo.Context) error {
	h.evaluator.Reset()
	return xhttp.NoContentResponse(c)
}

func (h *DecisionsEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
