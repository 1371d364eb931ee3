package store

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/GregMSThompson/goalaura-backend/internal/errs"
	"github.com/GregMSThompson/goalaura-backend/internal/models"
)

type userStore struct {
	Client     *firestore.Client
	Collection *firestore.CollectionRef
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{
		Client:     client,
		Collection: client.Collection("users"),
	}
}

func (us *userStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := us.Collection.Doc(user.UID).Create(ctx, user)
	return errs.FromStore("create_user", "user already exists", err)
}

func (us *userStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var user models.User

	doc, err := us.Collection.Doc(uid).Get(ctx)
	if err != nil {
		return nil, errs.FromStore("get_user", "user not found", err)
	}
	if err := doc.DataTo(&user); err != nil {
		return nil, errs.NewDatabaseError("get_user", "decode user", err)
	}
	user.UID = doc.Ref.ID

	return &user, nil
}

// UpdateUser applies field-path updates ("occupation", "preferences.theme")
// to an existing profile and stamps updatedAt.
func (us *userStore) UpdateUser(ctx context.Context, uid string, fields map[string]any) error {
	updates := toUpdates(fields)
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})

	_, err := us.Collection.Doc(uid).Update(ctx, updates)
	return errs.FromStore("update_user", "user not found", err)
}

// IncrementStats adds each delta to its counter atomically.
func (us *userStore) IncrementStats(ctx context.Context, uid string, deltas map[string]int) error {
	if len(deltas) == 0 {
		return nil
	}
	_, err := us.Collection.Doc(uid).Update(ctx, incrementUpdates(deltas))
	return errs.FromStore("increment_stats", "user not found", err)
}

// ListCircleCandidates returns every profile that opted into peer circles.
func (us *userStore) ListCircleCandidates(ctx context.Context) ([]*models.User, error) {
	iter := us.Collection.Where(models.FieldParticipateInCircles, "==", true).Documents(ctx)
	defer iter.Stop()

	var users []*models.User
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("list_circle_candidates", "iterate users", err)
		}
		var u models.User
		if err := doc.DataTo(&u); err != nil {
			return nil, errs.NewDatabaseError("list_circle_candidates", "decode user", err)
		}
		u.UID = doc.Ref.ID
		users = append(users, &u)
	}
	return users, nil
}

// ---- Helpers ----

func toUpdates(fields map[string]any) []firestore.Update {
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	updates := make([]firestore.Update, 0, len(paths)+1)
	for _, p := range paths {
		updates = append(updates, firestore.Update{Path: p, Value: fields[p]})
	}
	return updates
}

func incrementUpdates(deltas map[string]int) []firestore.Update {
	fields := make(map[string]any, len(deltas))
	for path, n := range deltas {
		fields[path] = firestore.Increment(n)
	}
	return toUpdates(fields)
}
