package store

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
	"github.com/GregMSThompson/goalaura-backend/internal/taxonomy"
)

type goalStore struct {
	client *firestore.Client
}

func NewGoalStore(client *firestore.Client) *goalStore {
	return &goalStore{client: client}
}

func (s *goalStore) userDoc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid)
}

func (s *goalStore) collection(uid string) *firestore.CollectionRef {
	return s.userDoc(uid).Collection("goals")
}

// Create stores the goal and applies the stat deltas to the owner's profile
// in one transaction.
func (s *goalStore) Create(ctx context.Context, uid string, goal *models.Goal, deltas map[string]int) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(s.collection(uid).Doc(goal.GoalID), goal); err != nil {
			return err
		}
		if len(deltas) > 0 {
			return tx.Update(s.userDoc(uid), incrementUpdates(deltas))
		}
		return nil
	})
	return errs.FromStore("create_goal", "user not found", err)
}

func (s *goalStore) List(ctx context.Context, uid string) ([]*models.Goal, error) {
	iter := s.collection(uid).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	goals := []*models.Goal{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("list_goals", "iterate goals", err)
		}
		var g models.Goal
		if err := doc.DataTo(&g); err != nil {
			return nil, errs.NewDatabaseError("list_goals", "decode goal", err)
		}
		g.GoalID = doc.Ref.ID
		goals = append(goals, &g)
	}
	return goals, nil
}

func (s *goalStore) Get(ctx context.Context, uid, goalID string) (*models.Goal, error) {
	doc, err := s.collection(uid).Doc(goalID).Get(ctx)
	if err != nil {
		return nil, errs.FromStore("get_goal", "goal not found", err)
	}
	var g models.Goal
	if err := doc.DataTo(&g); err != nil {
		return nil, errs.NewDatabaseError("get_goal", "decode goal", err)
	}
	g.GoalID = doc.Ref.ID
	return &g, nil
}

// Transition moves a goal from one status to another and applies the stat
// deltas in the same transaction. A goal already in status to is returned
// unchanged; a goal in any other status is a ValidationError.
func (s *goalStore) Transition(ctx context.Context, uid, goalID, from, to string, at time.Time, deltas map[string]int) (*models.Goal, error) {
	var out models.Goal
	ref := s.collection(uid).Doc(goalID)

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var g models.Goal
		if err := snap.DataTo(&g); err != nil {
			return err
		}
		g.GoalID = ref.ID

		switch g.Status {
		case to:
			out = g
			return nil
		case from:
		default:
			return errs.NewFieldValidationError("status", "cannot move goal from "+g.Status+" to "+to)
		}

		g.Status = to
		g.UpdatedAt = at
		updates := []firestore.Update{
			{Path: "status", Value: to},
			{Path: "updatedAt", Value: at},
		}
		if to == taxonomy.GoalCompleted {
			g.CompletedAt = &at
			updates = append(updates, firestore.Update{Path: "completedAt", Value: at})
		}
		if err := tx.Update(ref, updates); err != nil {
			return err
		}
		if len(deltas) > 0 {
			if err := tx.Update(s.userDoc(uid), incrementUpdates(deltas)); err != nil {
				return err
			}
		}
		out = g
		return nil
	})
	if err != nil {
		var validation *errs.ValidationError
		if errors.As(err, &validation) {
			return nil, validation
		}
		return nil, errs.FromStore("transition_goal", "goal not found", err)
	}
	return &out, nil
}
