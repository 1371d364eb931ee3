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

type userService interface {
	Register(ctx context.Context, uid, email string, req dto.RegisterRequest) (*models.User, error)
	Get(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, req dto.UpdateProfileRequest) (*models.User, error)
	UpdatePreferences(ctx context.Context, uid string, req dto.UpdatePreferencesRequest) (*models.User, error)
	UpdateNotifications(ctx context.Context, uid string, req dto.UpdateNotificationsRequest) (*models.User, error)
	RefreshSavings(ctx context.Context, uid string) (*models.User, error)
}

type userHandlers struct {
	ResponseHandler response.ResponseHandler
	UserSvc         userService
}

func NewUserHandlers(deps *Deps) *userHandlers {
	return &userHandlers{
		ResponseHandler: deps.ResponseHandler,
		UserSvc:         deps.UserSvc,
	}
}

func (h *userHandlers) UserRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateUser)
	r.Route("/me", func(r chi.Router) {
		r.Get("/", h.GetUser)
		r.Put("/", h.UpdateProfile)
		r.Put("/preferences", h.UpdatePreferences)
		r.Put("/notifications", h.UpdateNotifications)
		r.Post("/stats/refresh", h.RefreshStats)
	})
	return r
}

func (h *userHandlers) CreateUser(w http.ResponseWriter, r *http.Request) {
	var body dto.RegisterRequest
	if err := decodeOptionalJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	ctx := r.Context()
	user, err := h.UserSvc.Register(ctx, middleware.UID(ctx), middleware.Email(ctx), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, user)
}

func (h *userHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserSvc.Get(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateProfileRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	user, err := h.UserSvc.UpdateProfile(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdatePreferencesRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	user, err := h.UserSvc.UpdatePreferences(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

func (h *userHandlers) UpdateNotifications(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateNotificationsRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	user, err := h.UserSvc.UpdateNotifications(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}

// RefreshStats recomputes totalSaved from the ledger.
func (h *userHandlers) RefreshStats(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserSvc.RefreshSavings(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, user)
}
