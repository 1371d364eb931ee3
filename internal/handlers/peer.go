package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/middleware"
	"github.com/GregMSThompson/goalaura-backend/internal/response"
)

type peerService interface {
	FindPeers(ctx context.Context, uid string) ([]dto.PeerMatch, error)
	PeerTransactions(ctx context.Context, uid, peerToken string) ([]dto.PeerTransaction, error)
}

type comparisonService interface {
	Compare(ctx context.Context, uid, peerToken string) (dto.ComparisonInsight, error)
}

type peerHandlers struct {
	ResponseHandler response.ResponseHandler
	PeerSvc         peerService
	ComparisonSvc   comparisonService
}

func NewPeerHandlers(deps *Deps) *peerHandlers {
	return &peerHandlers{
		ResponseHandler: deps.ResponseHandler,
		PeerSvc:         deps.PeerSvc,
		ComparisonSvc:   deps.ComparisonSvc,
	}
}

// PeerRoutes addresses peers by the opaque token returned from FindPeers.
func (h *peerHandlers) PeerRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.FindPeers)
	r.Get("/{peerId}/transactions", h.PeerTransactions)
	r.Post("/{peerId}/compare", h.Compare)
	return r
}

func (h *peerHandlers) FindPeers(w http.ResponseWriter, r *http.Request) {
	peers, err := h.PeerSvc.FindPeers(r.Context(), middleware.UID(r.Context()))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, peers)
}

func (h *peerHandlers) PeerTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.PeerSvc.PeerTransactions(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "peerId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, txs)
}

func (h *peerHandlers) Compare(w http.ResponseWriter, r *http.Request) {
	insight, err := h.ComparisonSvc.Compare(r.Context(), middleware.UID(r.Context()), chi.URLParam(r, "peerId"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, insight)
}
