package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/middleware"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/response"
)

// fakes implementing handler interfaces
type fakePlaidSvc struct {
	linkToken string
	bank      *models.Bank
	syncRes   dto.PlaidServiceSyncResult
	err       error

	gotLink struct {
		uid    string
		pubTok string
		inst   string
	}
	gotSync struct {
		called bool
		uid    string
		bankID *string
	}
}

func (f *fakePlaidSvc) CreateLinkToken(ctx context.Context, uid string) (string, error) {
	return f.linkToken, f.err
}
func (f *fakePlaidSvc) LinkBank(ctx context.Context, uid, publicToken, institutionName string) (*models.Bank, error) {
	f.gotLink.uid = uid
	f.gotLink.pubTok = publicToken
	f.gotLink.inst = institutionName
	return f.bank, f.err
}
func (f *fakePlaidSvc) SyncTransactions(ctx context.Context, uid string, bankID *string) (dto.PlaidServiceSyncResult, error) {
	f.gotSync.called = true
	f.gotSync.uid = uid
	f.gotSync.bankID = bankID
	return f.syncRes, f.err
}

type fakeBankSvc struct {
	banks   []*models.Bank
	err     error
	deleted string
}

func (f *fakeBankSvc) ListBanks(ctx context.Context, uid string) ([]*models.Bank, error) {
	return f.banks, f.err
}
func (f *fakeBankSvc) DeleteBank(ctx context.Context, uid, bankID string) error {
	f.deleted = bankID
	return f.err
}

// helper to build handler
func newTestPlaidHandler(p *fakePlaidSvc, b *fakeBankSvc) *plaidHandlers {
	return NewPlaidHandlers(&Deps{
		ResponseHandler: newTestResponseHandler(),
		PlaidSvc:        p,
		BankSvc:         b,
	})
}

func newTestResponseHandler() response.ResponseHandler {
	return response.New(slog.New(slog.NewTextHandler(testDiscard{}, nil)))
}

func ctxWithUID(ctx context.Context) context.Context {
	return context.WithValue(ctx, middleware.UIDKey, "uid-123")
}

func TestCreateLinkTokenHandler(t *testing.T) {
	p := &fakePlaidSvc{linkToken: "link-abc"}
	h := newTestPlaidHandler(p, &fakeBankSvc{})

	req := httptest.NewRequest(http.MethodPost, "/banks/link-token", nil).WithContext(ctxWithUID(context.Background()))
	rr := httptest.NewRecorder()

	h.CreateLinkToken(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Success bool
		Data    map[string]string
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Data["linkToken"] != "link-abc" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLinkBankHandler(t *testing.T) {
	p := &fakePlaidSvc{bank: &models.Bank{BankID: "item-1", Institution: "Chase", Status: "active"}}
	h := newTestPlaidHandler(p, &fakeBankSvc{})

	body := `{"publicToken":"pub-123","institutionName":"Chase"}`
	req := httptest.NewRequest(http.MethodPost, "/banks", bytes.NewBufferString(body)).WithContext(ctxWithUID(context.Background()))
	rr := httptest.NewRecorder()

	h.LinkBank(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if p.gotLink.uid != "uid-123" || p.gotLink.pubTok != "pub-123" || p.gotLink.inst != "Chase" {
		t.Fatalf("link called with %+v", p.gotLink)
	}
	var resp struct {
		Data models.Bank
	}
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	if resp.Data.BankID != "item-1" {
		t.Fatalf("unexpected response: %s", rr.Body.String())
	}
}

func TestLinkBankValidationError(t *testing.T) {
	p := &fakePlaidSvc{err: errs.NewFieldValidationError("publicToken", "publicToken is required")}
	h := newTestPlaidHandler(p, &fakeBankSvc{})

	req := httptest.NewRequest(http.MethodPost, "/banks", bytes.NewBufferString(`{}`)).WithContext(ctxWithUID(context.Background()))
	rr := httptest.NewRecorder()

	h.LinkBank(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	var body response.ErrorResponse
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	if body.Field != "publicToken" {
		t.Fatalf("unexpected error body: %s", rr.Body.String())
	}
}

func TestSyncTransactionsHandler(t *testing.T) {
	p := &fakePlaidSvc{syncRes: dto.PlaidServiceSyncResult{BanksSynced: 1}}
	h := newTestPlaidHandler(p, &fakeBankSvc{})

	body := `{"bankId":"item-1"}`
	req := httptest.NewRequest(http.MethodPost, "/banks/sync", bytes.NewBufferString(body)).WithContext(ctxWithUID(context.Background()))
	rr := httptest.NewRecorder()

	h.SyncTransactions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if p.gotSync.uid != "uid-123" || p.gotSync.bankID == nil || *p.gotSync.bankID != "item-1" {
		t.Fatalf("sync called with %+v", p.gotSync)
	}
}

func TestSyncTransactionsEmptyBodySyncsAll(t *testing.T) {
	p := &fakePlaidSvc{syncRes: dto.PlaidServiceSyncResult{BanksSynced: 2}}
	h := newTestPlaidHandler(p, &fakeBankSvc{})

	req := httptest.NewRequest(http.MethodPost, "/banks/sync", nil).WithContext(ctxWithUID(context.Background()))
	rr := httptest.NewRecorder()

	h.SyncTransactions(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body=%s", rr.Code, rr.Body.String())
	}
	if !p.gotSync.called || p.gotSync.bankID != nil {
		t.Fatalf("sync called with %+v", p.gotSync)
	}
}

func TestSyncTransactionsMalformedBody(t *testing.T) {
	p := &fakePlaidSvc{}
	h := newTestPlaidHandler(p, &fakeBankSvc{})

	req := httptest.NewRequest(http.MethodPost, "/banks/sync", bytes.NewBufferString("{")).WithContext(ctxWithUID(context.Background()))
	rr := httptest.NewRecorder()

	h.SyncTransactions(rr, req)

	if rr.Code != http.StatusBadRequest || p.gotSync.called {
		t.Fatalf("status = %d, sync called = %v", rr.Code, p.gotSync.called)
	}
}

func TestBankRoutesDelete(t *testing.T) {
	b := &fakeBankSvc{}
	routes := newTestPlaidHandler(&fakePlaidSvc{}, b).BankRoutes()

	req := httptest.NewRequest(http.MethodDelete, "/item-9", nil).WithContext(ctxWithUID(context.Background()))
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || b.deleted != "item-9" {
		t.Fatalf("status = %d, deleted = %q", rr.Code, b.deleted)
	}
}

func TestDeleteBankNotFound(t *testing.T) {
	b := &fakeBankSvc{err: errs.NewNotFoundError("bank not found")}
	routes := newTestPlaidHandler(&fakePlaidSvc{}, b).BankRoutes()

	req := httptest.NewRequest(http.MethodDelete, "/missing", nil).WithContext(ctxWithUID(context.Background()))
	rr := httptest.NewRecorder()
	routes.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
}

// discard logger output in tests
type testDiscard struct{}

func (testDiscard) Write(p []byte) (int, error) { return len(p), nil }
