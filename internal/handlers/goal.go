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

type goalService interface {
	Save(ctx context.Context, uid string, req dto.SaveGoalRequest) (*models.Goal, error)
	List(ctx context.Context, uid string) ([]*models.Goal, error)
	UpdateStatus(ctx context.Context, uid, goalID, status string) (*models.Goal, error)
}

type goalHandlers struct {
	ResponseHandler response.ResponseHandler
	GoalSvc         goalService
}

func NewGoalHandlers(deps *Deps) *goalHandlers {
	return &goalHandlers{
		ResponseHandler: deps.ResponseHandler,
		GoalSvc:         deps.GoalSvc,
	}
}

func (h *goalHandlers) GoalRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.SaveGoal)
	r.Get("/", h.ListGoals)
	r.Put("/{goalId}/status", h.UpdateStatus)
	return r
}

func (h *goalHandlers) SaveGoal(w http.ResponseWriter, r *http.Request) {
	var body dto.SaveGoalRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	goal, err := h.GoalSvc.Save(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, goal)
}

func (h *goalHandlers) ListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := h.GoalSvc.List(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, goals)
}

func (h *goalHandlers) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateGoalStatusRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	goal, err := h.GoalSvc.UpdateStatus(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "goalId"), body.Status)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, goal)
}
