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

type plaidService interface {
	CreateLinkToken(ctx context.Context, uid string) (string, error)
	LinkBank(ctx context.Context, uid, publicToken, institutionName string) (*models.Bank, error)
	SyncTransactions(ctx context.Context, uid string, bankID *string) (dto.PlaidServiceSyncResult, error)
}

type bankService interface {
	ListBanks(ctx context.Context, uid string) ([]*models.Bank, error)
	DeleteBank(ctx context.Context, uid, bankID string) error
}

type plaidHandlers struct {
	ResponseHandler response.ResponseHandler
	PlaidSvc        plaidService
	BankSvc         bankService
}

func NewPlaidHandlers(deps *Deps) *plaidHandlers {
	return &plaidHandlers{
		ResponseHandler: deps.ResponseHandler,
		PlaidSvc:        deps.PlaidSvc,
		BankSvc:         deps.BankSvc,
	}
}

// BankRoutes is mounted at /banks.
func (h *plaidHandlers) BankRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/link-token", h.CreateLinkToken)
	r.Post("/sync", h.SyncTransactions)
	r.Post("/", h.LinkBank)
	r.Get("/", h.ListBanks)
	r.Delete("/{bankId}", h.DeleteBank)
	return r
}

func (h *plaidHandlers) CreateLinkToken(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	linkToken, err := h.PlaidSvc.CreateLinkToken(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"linkToken": linkToken})
}

func (h *plaidHandlers) LinkBank(w http.ResponseWriter, r *http.Request) {
	var body struct {
		PublicToken     string `json:"publicToken"`
		InstitutionName string `json:"institutionName,omitempty"`
	}
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	bank, err := h.PlaidSvc.LinkBank(r.Context(), uid, body.PublicToken, body.InstitutionName)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, bank)
}

func (h *plaidHandlers) ListBanks(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())

	banks, err := h.BankSvc.ListBanks(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, banks)
}

func (h *plaidHandlers) DeleteBank(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	bankID := chi.URLParam(r, "bankId")

	if err := h.BankSvc.DeleteBank(r.Context(), uid, bankID); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

// SyncTransactions syncs one bank when bankId is given, otherwise all of them.
func (h *plaidHandlers) SyncTransactions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BankID *string `json:"bankId,omitempty"`
	}
	if err := decodeOptionalJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	uid := middleware.UID(r.Context())
	result, err := h.PlaidSvc.SyncTransactions(r.Context(), uid, body.BankID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, result)
}
