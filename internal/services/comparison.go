package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

var csvHeader = []string{"category", "amount", "type", "description"}

type comparisonNarrator interface {
	CompareUsers(ctx context.Context, req dto.ComparisonRequest) (dto.ComparisonInsight, error)
}

type comparisonService struct {
	users    profileGetter
	tokens   peerTokens
	txs      peerLedger
	narrator comparisonNarrator
}

func NewComparisonService(users profileGetter, tokens peerTokens, txs peerLedger, narrator comparisonNarrator) *comparisonService {
	return &comparisonService{
		users:    users,
		tokens:   tokens,
		txs:      txs,
		narrator: narrator,
	}
}

// ledgerExtract is one user's history as CSV plus the net balance over the
// same rows.
type ledgerExtract struct {
	csv        string
	netBalance float64
}

// Compare builds both users' profile tokens and CSV histories and asks the
// narrator for an insight. The narrator is called once; a transport failure
// becomes ComparisonUnavailableError.
func (s *comparisonService) Compare(ctx context.Context, uid, peerToken string) (dto.ComparisonInsight, error) {
	log := logger.FromContext(ctx)

	peerUID, err := openPeerToken(ctx, s.tokens, uid, peerToken)
	if err != nil {
		return dto.ComparisonInsight{}, err
	}

	var (
		me, peer       *models.User
		myTxs, peerTxs ledgerExtract
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.users.GetUser(gctx, uid)
		me = u
		return err
	})
	g.Go(func() error {
		u, err := loadPeer(gctx, s.users, uid, peerUID)
		peer = u
		return err
	})
	g.Go(func() error {
		e, err := s.extract(gctx, uid)
		myTxs = e
		return err
	})
	g.Go(func() error {
		e, err := s.extract(gctx, peerUID)
		peerTxs = e
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.ComparisonInsight{}, err
	}

	insight, err := s.narrator.CompareUsers(ctx, dto.ComparisonRequest{
		CurrentUserInfo:         profileToken(me, myTxs.netBalance),
		OtherUserInfo:           profileToken(peer, peerTxs.netBalance),
		CurrentUserTransactions: myTxs.csv,
		OtherUserTransactions:   peerTxs.csv,
	})
	if err != nil {
		var upstream *errs.UpstreamFormatError
		if errors.As(err, &upstream) {
			return dto.ComparisonInsight{}, upstream
		}
		log.Error("peer comparison failed", "error", err)
		return dto.ComparisonInsight{}, errs.NewComparisonUnavailableError(err)
	}

	log.Info("peer comparison generated")
	return insight, nil
}

func (s *comparisonService) extract(ctx context.Context, uid string) (ledgerExtract, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return ledgerExtract{}, err
	}

	var summary dto.TransactionSummary
	txCh, errCh := s.txs.Query(ctx, uid, dto.TransactionQuery{})
	if err := streamTransactions(txCh, errCh, func(tx *models.Transaction) error {
		addToSummary(&summary, tx)
		return w.Write([]string{
			taxonomy.NormalizeCategory(tx.Category),
			strconv.FormatFloat(tx.Amount, 'f', -1, 64),
			tx.Type,
			tx.Description,
		})
	}); err != nil {
		return ledgerExtract{}, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return ledgerExtract{}, err
	}
	return ledgerExtract{
		csv:        buf.String(),
		netBalance: summary.TotalDeposits - summary.TotalWithdrawals,
	}, nil
}

// profileToken renders occupation_income_savings, e.g. SoftwareEngineer_40000_12500.
func profileToken(u *models.User, savings float64) string {
	occupation := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' {
			return -1
		}
		return r
	}, u.Occupation)

	income, _ := u.Income()
	saved := math.Round(savings)
	if saved == 0 {
		saved = 0 // drop negative zero
	}
	return occupation + "_" +
		income.Round(0).String() + "_" +
		strconv.FormatFloat(saved, 'f', 0, 64)
}
