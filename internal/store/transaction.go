package store

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
)

type transactionStore struct {
	client *firestore.Client
}

func NewTransactionStore(client *firestore.Client) *transactionStore {
	return &transactionStore{client: client}
}

func (s *transactionStore) txCollection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("transactions")
}

func (s *transactionStore) cursorDoc(uid, bankID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid).Collection("plaid_cursors").Doc(bankID)
}

func (s *transactionStore) Create(ctx context.Context, uid string, tx *models.Transaction) error {
	_, err := s.txCollection(uid).Doc(tx.TransactionID).Create(ctx, tx)
	return errs.FromStore("create_transaction", "transaction already exists", err)
}

func (s *transactionStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	doc, err := s.txCollection(uid).Doc(transactionID).Get(ctx)
	if err != nil {
		return nil, errs.FromStore("get_transaction", "transaction not found", err)
	}
	var tx models.Transaction
	if err := doc.DataTo(&tx); err != nil {
		return nil, errs.NewDatabaseError("get_transaction", "decode transaction", err)
	}
	tx.TransactionID = doc.Ref.ID
	return &tx, nil
}

// Update rewrites the mutable fields of an existing transaction. It fails
// with NotFoundError instead of recreating a deleted document.
func (s *transactionStore) Update(ctx context.Context, uid string, tx *models.Transaction) error {
	_, err := s.txCollection(uid).Doc(tx.TransactionID).Update(ctx, []firestore.Update{
		{Path: "amount", Value: tx.Amount},
		{Path: "type", Value: tx.Type},
		{Path: "category", Value: tx.Category},
		{Path: "description", Value: tx.Description},
		{Path: "currency", Value: tx.Currency},
		{Path: "transactionDate", Value: tx.TransactionDate},
		{Path: "status", Value: tx.Status},
		{Path: "updatedAt", Value: tx.UpdatedAt},
	})
	return errs.FromStore("update_transaction", "transaction not found", err)
}

func (s *transactionStore) Delete(ctx context.Context, uid, transactionID string) error {
	_, err := s.txCollection(uid).Doc(transactionID).Delete(ctx, firestore.Exists)
	return errs.FromStore("delete_transaction", "transaction not found", err)
}

func (s *transactionStore) query(uid string, q dto.TransactionQuery) firestore.Query {
	fq := s.txCollection(uid).Query
	if q.Type != nil {
		fq = fq.Where("type", "==", *q.Type)
	}
	if q.Category != nil {
		fq = fq.Where("category", "==", *q.Category)
	}
	if q.BankID != nil {
		fq = fq.Where("bankId", "==", *q.BankID)
	}
	if q.From != nil {
		fq = fq.Where("createdAt", ">=", *q.From)
	}
	if q.To != nil {
		fq = fq.Where("createdAt", "<=", *q.To)
	}
	return fq
}

// Query streams matching transactions newest first. The error channel
// carries at most one error and both channels are closed when the scan ends.
func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery) (<-chan *models.Transaction, <-chan error) {
	txCh := make(chan *models.Transaction)
	errCh := make(chan error, 1)

	fq := s.query(uid, q).OrderBy("createdAt", firestore.Desc)
	if q.Offset > 0 {
		fq = fq.Offset(q.Offset)
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	go func() {
		defer close(txCh)
		defer close(errCh)

		iter := fq.Documents(ctx)
		defer iter.Stop()

		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				return
			}
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					err = ctxErr
				}
				errCh <- errs.NewDatabaseError("query_transactions", "iterate transactions", err)
				return
			}
			var tx models.Transaction
			if err := doc.DataTo(&tx); err != nil {
				errCh <- errs.NewDatabaseError("query_transactions", "decode transaction", err)
				return
			}
			tx.TransactionID = doc.Ref.ID

			select {
			case txCh <- &tx:
			case <-ctx.Done():
				errCh <- errs.NewDatabaseError("query_transactions", "query cancelled", ctx.Err())
				return
			}
		}
	}()

	return txCh, errCh
}

// Count returns the number of transactions matching q, ignoring offset and
// limit.
func (s *transactionStore) Count(ctx context.Context, uid string, q dto.TransactionQuery) (int, error) {
	fq := s.query(uid, q)
	res, err := fq.NewAggregationQuery().WithCount("total").Get(ctx)
	if err != nil {
		return 0, errs.NewDatabaseError("count_transactions", "count aggregation", err)
	}
	v, ok := res["total"].(*firestorepb.Value)
	if !ok {
		return 0, errs.NewDatabaseError("count_transactions", "count aggregation returned no value", nil)
	}
	return int(v.GetIntegerValue()), nil
}

func (s *transactionStore) UpsertBatch(ctx context.Context, uid string, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(txs))
	now := time.Now()

	for _, t := range txs {
		t.UpdatedAt = now
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}

		doc := s.txCollection(uid).Doc(t.TransactionID)
		job, err := bw.Set(doc, t)
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("upsert_transactions", "queue write", err)
		}
		jobs = append(jobs, job)
	}

	// Flush and close the writer, then wait on each job for errors.
	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDatabaseError("upsert_transactions", "write transaction", err)
		}
	}

	return nil
}

// DeleteBatch removes the given ids; ids that no longer exist are ignored.
func (s *transactionStore) DeleteBatch(ctx context.Context, uid string, transactionIDs []string) error {
	if len(transactionIDs) == 0 {
		return nil
	}

	bw := s.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(transactionIDs))
	for _, id := range transactionIDs {
		job, err := bw.Delete(s.txCollection(uid).Doc(id))
		if err != nil {
			bw.End()
			return errs.NewDatabaseError("delete_transactions", "queue delete", err)
		}
		jobs = append(jobs, job)
	}

	bw.End()
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return errs.NewDatabaseError("delete_transactions", "delete transaction", err)
		}
	}
	return nil
}

// DeleteByBank removes every transaction imported from bankID.
func (s *transactionStore) DeleteByBank(ctx context.Context, uid, bankID string) error {
	iter := s.txCollection(uid).Where("bankId", "==", bankID).Select().Documents(ctx)
	defer iter.Stop()

	var ids []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errs.NewDatabaseError("delete_by_bank", "iterate transactions", err)
		}
		ids = append(ids, doc.Ref.ID)
	}
	return s.DeleteBatch(ctx, uid, ids)
}

func (s *transactionStore) GetCursor(ctx context.Context, uid, bankID string) (string, error) {
	snap, err := s.cursorDoc(uid, bankID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", nil
	}
	if err != nil {
		return "", errs.NewDatabaseError("get_cursor", "read cursor", err)
	}
	cursor, ok := snap.Data()["cursor"].(string)
	if !ok {
		return "", nil
	}
	return cursor, nil
}

func (s *transactionStore) SetCursor(ctx context.Context, uid, bankID, cursor string) error {
	_, err := s.cursorDoc(uid, bankID).Set(ctx, map[string]interface{}{
		"cursor":    cursor,
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return errs.NewDatabaseError("set_cursor", "write cursor", err)
	}
	return nil
}

func (s *transactionStore) DeleteCursor(ctx context.Context, uid, bankID string) error {
	_, err := s.cursorDoc(uid, bankID).Delete(ctx)
	if err != nil {
		return errs.NewDatabaseError("delete_cursor", "delete cursor", err)
	}
	return nil
}
