package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/middleware"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/response"
)

type ledgerService interface {
	Append(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error)
	List(ctx context.Context, uid string, req dto.ListTransactionsRequest) (dto.TransactionPage, error)
	Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	Update(ctx context.Context, uid, transactionID string, req dto.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, uid, transactionID string) error
	Recent(ctx context.Context, uid string, limit int) ([]models.Transaction, error)
}

type analyticsService interface {
	Stats(ctx context.Context, uid, period string) (dto.TransactionStats, error)
	CategoryBreakdown(ctx context.Context, uid string, from, to *time.Time) ([]dto.CategoryTotal, error)
}

type transactionHandlers struct {
	ResponseHandler response.ResponseHandler
	LedgerSvc       ledgerService
	AnalyticsSvc    analyticsService
}

func NewTransactionHandlers(deps *Deps) *transactionHandlers {
	return &transactionHandlers{
		ResponseHandler: deps.ResponseHandler,
		LedgerSvc:       deps.LedgerSvc,
		AnalyticsSvc:    deps.AnalyticsSvc,
	}
}

func (h *transactionHandlers) TransactionRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateTransaction)
	r.Get("/", h.ListTransactions)
	r.Get("/stats/summary", h.Stats)
	r.Get("/breakdown", h.Breakdown)
	r.Get("/recent", h.Recent)
	r.Route("/{transactionId}", func(r chi.Router) {
		r.Get("/", h.GetTransaction)
		r.Put("/", h.UpdateTransaction)
		r.Delete("/", h.DeleteTransaction)
	})
	return r
}

func (h *transactionHandlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var body dto.CreateTransactionRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	tx, err := h.LedgerSvc.Append(r.Context(), middleware.UID(r.Context()), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, tx)
}

func (h *transactionHandlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	page, err := h.LedgerSvc.List(r.Context(), middleware.UID(r.Context()), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, page)
}

func parseListRequest(r *http.Request) (dto.ListTransactionsRequest, error) {
	var req dto.ListTransactionsRequest
	var err error

	req.Filters.Type = queryString(r, "type")
	req.Filters.Category = queryString(r, "category")
	if req.Filters.StartDate, err = queryDate(r, "startDate", false); err != nil {
		return req, err
	}
	if req.Filters.EndDate, err = queryDate(r, "endDate", true); err != nil {
		return req, err
	}
	if req.Page, err = queryInt(r, "page"); err != nil {
		return req, err
	}
	if req.Limit, err = queryInt(r, "limit"); err != nil {
		return req, err
	}
	return req, nil
}

func (h *transactionHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "month"
	}

	stats, err := h.AnalyticsSvc.Stats(r.Context(), middleware.UID(r.Context()), period)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, stats)
}

func (h *transactionHandlers) Breakdown(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "startDate", false)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	to, err := queryDate(r, "endDate", true)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	items, err := h.AnalyticsSvc.CategoryBreakdown(r.Context(), middleware.UID(r.Context()), from, to)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, items)
}

func (h *transactionHandlers) Recent(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	txs, err := h.LedgerSvc.Recent(r.Context(), middleware.UID(r.Context()), limit)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txs)
}

func (h *transactionHandlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.LedgerSvc.Get(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "transactionId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateTransactionRequest
	if err := decodeJSON(r, &body); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	tx, err := h.LedgerSvc.Update(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "transactionId"), body)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, tx)
}

func (h *transactionHandlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.LedgerSvc.Delete(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "transactionId")); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
