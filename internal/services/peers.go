package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GregMSThompson/goalaura-backend/internal/crypto"
	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/pkg/logger"
)

const (
	occupationWeight = 0.7
	incomeWeight     = 0.3
)

type profileGetter interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

type peerProfileStore interface {
	profileGetter
	ListCircleCandidates(ctx context.Context) ([]*models.User, error)
}

// peerTokens turns peer uids into opaque tokens bound to the requester.
type peerTokens interface {
	Seal(ctx context.Context, subject, plaintext string) (string, error)
	Open(ctx context.Context, subject, token string) (string, error)
}

type peerLedger interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery) (<-chan *models.Transaction, <-chan error)
}

type PeerPolicy struct {
	Limit         int
	MinSimilarity float64
}

type peerService struct {
	users  peerProfileStore
	tokens peerTokens
	txs    peerLedger
	policy PeerPolicy
}

func NewPeerService(users peerProfileStore, tokens peerTokens, txs peerLedger, policy PeerPolicy) *peerService {
	return &peerService{
		users:  users,
		tokens: tokens,
		txs:    txs,
		policy: policy,
	}
}

type scoredPeer struct {
	user       *models.User
	income     decimal.Decimal
	similarity float64
}

// FindPeers ranks the opted-in profiles by similarity to the requester and
// returns at most policy.Limit of them. If the similarity floor removes every
// candidate the single best one is still returned.
func (s *peerService) FindPeers(ctx context.Context, uid string) ([]dto.PeerMatch, error) {
	log := logger.FromContext(ctx)

	requester, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, err
	}
	candidates, err := s.users.ListCircleCandidates(ctx)
	if err != nil {
		log.Error("failed to list circle candidates", "error", err)
		return nil, err
	}

	reqIncome, _ := requester.Income()
	pool := make([]scoredPeer, 0, len(candidates))
	for _, c := range candidates {
		if !eligiblePeer(c, uid) {
			continue
		}
		income, _ := c.Income()
		pool = append(pool, scoredPeer{
			user:       c,
			income:     income,
			similarity: similarity(requester.Occupation, reqIncome.InexactFloat64(), c.Occupation, income.InexactFloat64()),
		})
	}

	ranked := rankPeers(pool, s.policy)
	out := make([]dto.PeerMatch, 0, len(ranked))
	for i, p := range ranked {
		token, err := s.tokens.Seal(ctx, uid, p.user.UID)
		if err != nil {
			log.Error("failed to seal peer token", "error", err)
			return nil, err
		}
		out = append(out, dto.PeerMatch{
			PeerID:        token,
			Initials:      p.user.Initials(),
			Occupation:    p.user.Occupation,
			MonthlyIncome: p.income,
			Location:      p.user.Location,
			Stats: dto.PeerStats{
				TotalSaved:    p.user.Stats.TotalSaved,
				ActiveGoals:   p.user.Stats.ActiveGoals,
				GoalsAchieved: p.user.Stats.GoalsAchieved,
			},
			Similarity: math.Round(p.similarity*100) / 100,
			Rank:       i + 1,
		})
	}

	log.Info("peers matched", "pool", len(pool), "returned", len(out))
	return out, nil
}

// PeerTransactions returns the shareable projection of a peer's ledger,
// newest first.
func (s *peerService) PeerTransactions(ctx context.Context, uid, peerToken string) ([]dto.PeerTransaction, error) {
	peerUID, err := openPeerToken(ctx, s.tokens, uid, peerToken)
	if err != nil {
		return nil, err
	}
	if _, err := loadPeer(ctx, s.users, uid, peerUID); err != nil {
		return nil, err
	}

	out := []dto.PeerTransaction{}
	txCh, errCh := s.txs.Query(ctx, peerUID, dto.TransactionQuery{})
	if err := streamTransactions(txCh, errCh, func(tx *models.Transaction) error {
		out = append(out, dto.PeerTransaction{
			Category:    tx.Category,
			Amount:      tx.Amount,
			Type:        tx.Type,
			Description: tx.Description,
			CreatedAt:   tx.CreatedAt,
		})
		return nil
	}); err != nil {
		return nil, err
	}
	return out, nil
}

// similarity is 0.7 x occupation match plus 0.3 x income proximity, on a
// 0..100 scale.
func similarity(reqOccupation string, reqIncome float64, occupation string, income float64) float64 {
	var occMatch float64
	if strings.EqualFold(strings.TrimSpace(reqOccupation), strings.TrimSpace(occupation)) {
		occMatch = 100
	}

	var proximity float64
	if reqIncome > 0 {
		proximity = math.Max(0, 100-math.Abs(income-reqIncome)/reqIncome*100)
	}

	return occupationWeight*occMatch + incomeWeight*proximity
}

func rankPeers(pool []scoredPeer, policy PeerPolicy) []scoredPeer {
	if len(pool) == 0 {
		return nil
	}
	sorted := make([]scoredPeer, len(pool))
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].similarity != sorted[j].similarity {
			return sorted[i].similarity > sorted[j].similarity
		}
		return sorted[i].user.UID < sorted[j].user.UID
	})

	limit := policy.Limit
	if limit <= 0 || limit > len(sorted) {
		limit = len(sorted)
	}

	out := make([]scoredPeer, 0, limit)
	for _, p := range sorted[:limit] {
		if p.similarity > policy.MinSimilarity {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = append(out, sorted[0])
	}
	return out
}

func eligiblePeer(u *models.User, requesterUID string) bool {
	if u == nil || u.UID == requesterUID || !u.Preferences.ParticipateInCircles {
		return false
	}
	if strings.TrimSpace(u.Occupation) == "" {
		return false
	}
	_, ok := u.Income()
	return ok
}

func openPeerToken(ctx context.Context, tokens peerTokens, uid, token string) (string, error) {
	peerUID, err := tokens.Open(ctx, uid, token)
	if errors.Is(err, crypto.ErrInvalidToken) {
		return "", errs.NewNotFoundError("peer not found")
	}
	if err != nil {
		return "", err
	}
	return peerUID, nil
}

// loadPeer fetches a peer profile and re-checks that it may still be shown
// to the requester.
func loadPeer(ctx context.Context, users profileGetter, uid, peerUID string) (*models.User, error) {
	peer, err := users.GetUser(ctx, peerUID)
	if err != nil {
		var notFound *errs.NotFoundError
		if errors.As(err, &notFound) {
			return nil, errs.NewNotFoundError("peer not found")
		}
		return nil, err
	}
	if !eligiblePeer(peer, uid) {
		return nil, errs.NewNotFoundError("peer not found")
	}
	return peer, nil
}
