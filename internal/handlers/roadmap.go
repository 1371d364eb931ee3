package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/middleware"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/response"
)

type roadmapService interface {
	Generate(ctx context.Context, uid string, req dto.RoadmapRequest) (*models.Roadmap, error)
	OpportunityCost(ctx context.Context, uid string, req dto.OpportunityCostRequest) (*models.OpportunityCost, error)
	Decide(ctx context.Context, uid string, req dto.DecisionRequest) (*models.DecisionAdvice, error)
}

type roadmapHandlers struct {
	ResponseHandler response.ResponseHandler
	RoadmapSvc      roadmapService
}

func NewRoadmapHandlers(deps *Deps) *roadmapHandlers {
	return &roadmapHandlers{
		ResponseHandler: deps.ResponseHandler,
		RoadmapSvc:      deps.RoadmapSvc,
	}
}

func (h *roadmapHandlers) RoadmapRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.GenerateRoadmap)
	r.Post("/opportunity-cost", h.OpportunityCost)
	r.Post("/decision", h.Decide)
	return r
}

func (h *roadmapHandlers) GenerateRoadmap(w http.ResponseWriter, r *http.Request) {
	var body dto.RoadmapRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	roadmap, err := h.RoadmapSvc.Generate(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, roadmap)
}

func (h *roadmapHandlers) OpportunityCost(w http.ResponseWriter, r *http.Request) {
	var body dto.OpportunityCostRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	result, err := h.RoadmapSvc.OpportunityCost(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}

func (h *roadmapHandlers) Decide(w http.ResponseWriter, r *http.Request) {
	var body dto.DecisionRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	advice, err := h.RoadmapSvc.Decide(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, advice)
}
