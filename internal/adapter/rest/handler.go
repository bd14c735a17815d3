// Package rest exposes the ranking and validation operations over HTTP.
package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Kaushik-07/BrandRanker/internal/metrics"
	"github.com/Kaushik-07/BrandRanker/internal/usecase"
)

// CachePinger reports shared-cache reachability for the health endpoint.
type CachePinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	rankUsecase     usecase.RankBrandsUsecase
	validateUsecase usecase.ValidateNamesUsecase
	collector       *metrics.Collector
	cachePinger     CachePinger
	logger          *slog.Logger
}

func NewHandler(
	rankUsecase usecase.RankBrandsUsecase,
	validateUsecase usecase.ValidateNamesUsecase,
	collector *metrics.Collector,
	cachePinger CachePinger,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		rankUsecase:     rankUsecase,
		validateUsecase: validateUsecase,
		collector:       collector,
		cachePinger:     cachePinger,
		logger:          logger,
	}
}

// RegisterRoutes attaches all handler routes to the echo instance.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/experiments/rank", h.RankBrands)
	e.POST("/api/validate/companies", h.ValidateCompanies)
	e.POST("/api/validate/categories", h.ValidateCategories)
	e.GET("/api/validation/performance", h.PerformanceStats)
	e.GET("/health", h.Health)
}

type rankRequest struct {
	Companies  []string `json:"companies"`
	Categories []string `json:"categories"`
}

type categoryDetail struct {
	Rankings []rankedRow `json:"rankings"`
	Model    string      `json:"model_used"`
	CacheHit bool        `json:"cache_hit"`
	Fallback bool        `json:"fallback"`
}

type rankedRow struct {
	Rank    int    `json:"rank"`
	Company string `json:"company"`
	Reason  string `json:"reason"`
}

type rankResponse struct {
	ExperimentID string                    `json:"experiment_id"`
	Rankings     map[string]map[string]int `json:"rankings"`
	AverageRanks map[string]float64        `json:"average_ranks"`
	Details      map[string]categoryDetail `json:"details"`
}

func (h *Handler) RankBrands(ctx echo.Context) error {
	var req rankRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := h.rankUsecase.Execute(ctx.Request().Context(), usecase.RankBrandsInput{
		Companies:  req.Companies,
		Categories: req.Categories,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidRequest) {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		h.logger.Error("ranking_failed", slog.String("error", err.Error()))
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": "ranking failed"})
	}

	resp := rankResponse{
		ExperimentID: result.ExperimentID,
		Rankings:     make(map[string]map[string]int, len(result.Rankings)),
		AverageRanks: result.AverageRanks,
		Details:      make(map[string]categoryDetail, len(result.Rankings)),
	}
	for category, ranking := range result.Rankings {
		ranks := make(map[string]int, len(ranking.Rankings))
		rows := make([]rankedRow, 0, len(ranking.Rankings))
		for _, r := range ranking.Rankings {
			ranks[r.Brand] = r.Rank
			rows = append(rows, rankedRow{Rank: r.Rank, Company: r.Brand, Reason: r.Reason})
		}
		resp.Rankings[category] = ranks
		resp.Details[category] = categoryDetail{
			Rankings: rows,
			Model:    ranking.Metadata.Model,
			CacheHit: ranking.Metadata.CacheHit,
			Fallback: ranking.Metadata.Fallback,
		}
	}

	return ctx.JSON(http.StatusOK, resp)
}

type validateRequest struct {
	Companies  []string `json:"companies"`
	Categories []string `json:"categories"`
}

type validateResponse struct {
	Valid        bool     `json:"valid"`
	ValidItems   []string `json:"valid_items"`
	InvalidItems []string `json:"invalid_items"`
	Error        string   `json:"error"`
}

func (h *Handler) ValidateCompanies(ctx echo.Context) error {
	var req validateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(req.Companies) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "no companies provided"})
	}

	result := h.validateUsecase.ValidateCompanies(ctx.Request().Context(), req.Companies)
	return ctx.JSON(http.StatusOK, toValidateResponse(result))
}

func (h *Handler) ValidateCategories(ctx echo.Context) error {
	var req validateRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if len(req.Categories) == 0 {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "no categories provided"})
	}

	result := h.validateUsecase.ValidateCategories(ctx.Request().Context(), req.Categories)
	return ctx.JSON(http.StatusOK, toValidateResponse(result))
}

func toValidateResponse(result usecase.ValidationResult) validateResponse {
	resp := validateResponse{
		Valid:        result.Valid,
		ValidItems:   result.ValidItems,
		InvalidItems: result.InvalidItems,
		Error:        result.ErrorMessage,
	}
	if resp.ValidItems == nil {
		resp.ValidItems = []string{}
	}
	if resp.InvalidItems == nil {
		resp.InvalidItems = []string{}
	}
	return resp
}

func (h *Handler) PerformanceStats(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, h.collector.Snapshot())
}

func (h *Handler) Health(ctx echo.Context) error {
	status := map[string]string{"status": "ok", "cache": "local"}
	if h.cachePinger != nil {
		status["cache"] = "redis"
		if err := h.cachePinger.Ping(ctx.Request().Context()); err != nil {
			status["cache"] = "unreachable"
		}
	}
	return ctx.JSON(http.StatusOK, status)
}
