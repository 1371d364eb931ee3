package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
)

type stubPeerService struct {
	peers    []dto.PeerMatch
	gotToken string
	err      error
}

func (s *stubPeerService) FindPeers(ctx context.Context, uid string) ([]dto.PeerMatch, error) {
	return s.peers, s.err
}
func (s *stubPeerService) PeerTransactions(ctx context.Context, uid, peerToken string) ([]dto.PeerTransaction, error) {
	s.gotToken = peerToken
	return []dto.PeerTransaction{{Category: "Food", Amount: 200, Type: "withdrawal"}}, s.err
}

type stubComparisonService struct {
	gotUID, gotToken string
	insight          dto.ComparisonInsight
	err              error
}

func (s *stubComparisonService) Compare(ctx context.Context, uid, peerToken string) (dto.ComparisonInsight, error) {
	s.gotUID, s.gotToken = uid, peerToken
	return s.insight, s.err
}

func newTestPeerRoutes(p *stubPeerService, c *stubComparisonService) http.Handler {
	return NewPeerHandlers(&Deps{
		ResponseHandler: newTestResponseHandler(),
		PeerSvc:         p,
		ComparisonSvc:   c,
	}).PeerRoutes()
}

func TestFindPeersHandler(t *testing.T) {
	p := &stubPeerService{peers: []dto.PeerMatch{{PeerID: "tok-a", Similarity: 99.25, Rank: 1}}}
	rr := serve(newTestPeerRoutes(p, &stubComparisonService{}), http.MethodGet, "/", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Data []dto.PeerMatch
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if len(resp.Data) != 1 || resp.Data[0].PeerID != "tok-a" {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
}

func TestPeerTransactionsPassesToken(t *testing.T) {
	p := &stubPeerService{}
	rr := serve(newTestPeerRoutes(p, &stubComparisonService{}), http.MethodGet, "/tok-b/transactions", "")

	if rr.Code != http.StatusOK || p.gotToken != "tok-b" {
		t.Fatalf("status = %d, token = %q", rr.Code, p.gotToken)
	}
}

func TestCompareHandler(t *testing.T) {
	c := &stubComparisonService{insight: dto.ComparisonInsight{Summary: "You spend more on food"}}
	rr := serve(newTestPeerRoutes(&stubPeerService{}, c), http.MethodPost, "/tok-c/compare", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if c.gotUID != "uid-123" || c.gotToken != "tok-c" {
		t.Fatalf("compare called with %q %q", c.gotUID, c.gotToken)
	}
}

func TestCompareErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unavailable", errs.NewComparisonUnavailableError(errors.New("vertex down")), http.StatusServiceUnavailable, "comparison_unavailable"},
		{"bad shape", errs.NewUpstreamFormatError("vertex", "response is missing summary"), http.StatusBadGateway, "upstream_format"},
		{"unknown peer", errs.NewNotFoundError("peer not found"), http.StatusNotFound, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stubComparisonService{err: tt.err}
			rr := serve(newTestPeerRoutes(&stubPeerService{}, c), http.MethodPost, "/tok/compare", "")

			if rr.Code != tt.status {
				t.Fatalf("status = %d, want %d", rr.Code, tt.status)
			}
			var body struct {
				Success bool
				Code    string
				Data    any
			}
			_ = json.Unmarshal(rr.Body.Bytes(), &body)
			if body.Code != tt.code || body.Success || body.Data != nil {
				t.Fatalf("unexpected body: %s", rr.Body.String())
			}
		})
	}
}
