package api

import (
	"errors"
	"net/http"

	models "AntVillage/internal/domain/models"
	"AntVillage/internal/usecase"
	xhttp "AntVillage/pkg/http"
	xlogger "AntVillage/pkg/logger"

	"github.com/labstack/echo/v4"
)

// BriefingHandler implements Echo-based HTTP handlers following Clean Architecture.
type BriefingHandler struct {
	logger    *xlogger.Logger
	pipeline  *usecase.BriefingPipeline
	snapshots *usecase.SnapshotProcessor
}

func NewBriefingHandler(logger *xlogger.Logger, pipeline *usecase.BriefingPipeline, snapshots *usecase.SnapshotProcessor) *BriefingHandler {
	return &BriefingHandler{logger: logger, pipeline: pipeline, snapshots: snapshots}
}

func (h *BriefingHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)

	g := e.Group("/api/briefing")
	g.POST("/generate", h.Generate)
	g.GET("/latest", h.Latest)
}

func (h *BriefingHandler) Healthz(c echo.Context) error {
	if err := h.snapshots.Health(c.Request().Context()); err != nil {
		h.logger.Warn("health check failed", xlogger.Error(err))
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *BriefingHandler) Generate(c echo.Context) error {
	req := &models.GenerateBriefingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	results, err := h.pipeline.GenerateAll(c.Request().Context(), req.UserID, req.PortfolioIDs, req.UserName, req.TimeSlot)
	if err != nil {
		if errors.Is(err, usecase.ErrPortfolioNotFound) || errors.Is(err, usecase.ErrNoHoldings) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no briefing data for requested portfolios").WithError(err))
		}
		h.logger.Error("briefing usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, results)
}

func (h *BriefingHandler) Latest(c echo.Context) error {
	req := &models.LatestBriefingRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	snapshot, err := h.snapshots.Latest(c.Request().Context(), req.UserID, req.PortfolioID)
	if err != nil {
		h.logger.Error("latest snapshot error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if snapshot == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no briefing for user %d portfolio %d", req.UserID, req.PortfolioID))
	}
	return xhttp.SuccessResponse(c, snapshot)
}
