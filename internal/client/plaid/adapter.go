package plaid

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/plaid/plaid-go/v24/plaid"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
)

const (
	serviceName = "plaid"
	clientName  = "GoalAura"
	syncCount   = 500
)

type Adapter struct {
	client       *plaid.APIClient
	countryCodes []plaid.CountryCode
}

func NewAdapter(clientID, secret string, env dto.PlaidEnvironment, countryCodes []string) *Adapter {
	cfg := plaid.NewConfiguration()
	cfg.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	cfg.AddDefaultHeader("PLAID-SECRET", secret)
	cfg.UseEnvironment(toPlaidEnv(env))

	codes := make([]plaid.CountryCode, 0, len(countryCodes))
	for _, c := range countryCodes {
		codes = append(codes, plaid.CountryCode(strings.ToUpper(c)))
	}

	return &Adapter{
		client:       plaid.NewAPIClient(cfg),
		countryCodes: codes,
	}
}

func (a *Adapter) CreateLinkToken(ctx context.Context, uid string) (string, error) {
	req := plaid.NewLinkTokenCreateRequest(
		clientName,
		"en",
		a.countryCodes,
		plaid.LinkTokenCreateRequestUser{ClientUserId: uid},
	)
	req.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	resp, httpResp, err := a.client.PlaidApi.LinkTokenCreate(ctx).LinkTokenCreateRequest(*req).Execute()
	if err != nil {
		return "", wrapErr("create link token", httpResp, err)
	}
	return resp.GetLinkToken(), nil
}

func (a *Adapter) ExchangePublicToken(ctx context.Context, publicToken string) (itemID, accessToken string, err error) {
	req := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, httpResp, err := a.client.PlaidApi.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(*req).Execute()
	if err != nil {
		return "", "", wrapErr("exchange public token", httpResp, err)
	}
	return resp.GetItemId(), resp.GetAccessToken(), nil
}

func (a *Adapter) SyncTransactions(ctx context.Context, bankID string, accessToken string, cursor *string) (dto.PlaidSyncPage, error) {
	req := plaid.NewTransactionsSyncRequest(accessToken)
	if cursor != nil {
		req.SetCursor(*cursor)
	}
	req.SetCount(syncCount)
	opts := plaid.NewTransactionsSyncRequestOptions()
	opts.SetIncludePersonalFinanceCategory(true)
	req.SetOptions(*opts)

	var page dto.PlaidSyncPage

	resp, httpResp, err := a.client.PlaidApi.TransactionsSync(ctx).TransactionsSyncRequest(*req).Execute()
	if err != nil {
		return page, wrapErr("sync transactions", httpResp, err)
	}

	rows := make([]plaidRow, 0, len(resp.GetAdded())+len(resp.GetModified()))
	for _, t := range resp.GetAdded() {
		rows = append(rows, fromPlaid(t))
	}
	for _, t := range resp.GetModified() {
		rows = append(rows, fromPlaid(t))
	}
	txs := toTransactions(bankID, rows)

	removed := make([]string, 0, len(resp.GetRemoved()))
	for _, r := range resp.GetRemoved() {
		if id := r.GetTransactionId(); id != "" {
			removed = append(removed, id)
		}
	}

	page.Transactions = txs
	page.RemovedIDs = removed
	page.Cursor = resp.GetNextCursor()
	page.HasMore = resp.GetHasMore()

	return page, nil
}

// plaidRow is the subset of a Plaid transaction the ledger keeps.
type plaidRow struct {
	ID          string
	Name        string
	Merchant    string
	Amount      float64
	Currency    string
	Date        string
	Pending     bool
	PFCPrimary  string
	PFCDetailed string
}

func fromPlaid(t plaid.Transaction) plaidRow {
	pfc := t.GetPersonalFinanceCategory()
	currency := t.GetIsoCurrencyCode()
	if currency == "" {
		currency = t.GetUnofficialCurrencyCode()
	}
	return plaidRow{
		ID:          t.GetTransactionId(),
		Name:        t.GetName(),
		Merchant:    t.GetMerchantName(),
		Amount:      t.GetAmount(),
		Currency:    currency,
		Date:        t.GetDate(),
		Pending:     t.GetPending(),
		PFCPrimary:  pfc.GetPrimary(),
		PFCDetailed: pfc.GetDetailed(),
	}
}

// toTransactions maps Plaid rows onto the ledger, dropping zero-amount rows
// since every ledger entry moves money.
func toTransactions(bankID string, rows []plaidRow) []models.Transaction {
	txs := make([]models.Transaction, 0, len(rows))
	for _, r := range rows {
		if r.Amount == 0 {
			continue
		}
		txs = append(txs, toTransaction(bankID, r))
	}
	return txs
}

// toTransaction maps a Plaid row onto the ledger. Plaid amounts are positive
// when money leaves the account.
func toTransaction(bankID string, r plaidRow) models.Transaction {
	typ := taxonomy.TypeWithdrawal
	amount := r.Amount
	if amount < 0 {
		typ = taxonomy.TypeDeposit
		amount = -amount
	}

	status := taxonomy.StatusCompleted
	if r.Pending {
		status = taxonomy.StatusPending
	}

	description := strings.TrimSpace(r.Merchant)
	if description == "" {
		description = strings.TrimSpace(r.Name)
	}

	currency := strings.ToUpper(strings.TrimSpace(r.Currency))
	if currency == "" {
		currency = "USD"
	}

	tx := models.Transaction{
		TransactionID: r.ID,
		Amount:        amount,
		Type:          typ,
		Category:      taxonomy.CategoryFromPFC(r.PFCPrimary, r.PFCDetailed),
		Description:   description,
		Currency:      currency,
		Status:        status,
		Source:        taxonomy.SourcePlaid,
		BankID:        bankID,
	}
	if d, err := time.Parse(time.DateOnly, r.Date); err == nil {
		tx.TransactionDate = d
		tx.CreatedAt = d
	}
	return tx
}

func wrapErr(op string, httpResp *http.Response, err error) error {
	transient := httpResp == nil ||
		httpResp.StatusCode >= http.StatusInternalServerError ||
		httpResp.StatusCode == http.StatusTooManyRequests
	return errs.NewExternalServiceError(serviceName, op, transient, err)
}

func toPlaidEnv(env dto.PlaidEnvironment) plaid.Environment {
	switch env {
	case dto.PlaidSandbox:
		return plaid.Sandbox
	case dto.PlaidDevelopment:
		return plaid.Development
	default: // dto.PlaidProduction:
		return plaid.Production
	}
}
