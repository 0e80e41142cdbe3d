package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"peer-feedback/core/database"
	"peer-feedback/feature/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setupTestDB creates a migrated in-memory SQLite database private to the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: dsn})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestReconciler(t *testing.T, opts Options) (*Reconciler, *gorm.DB) {
	db := setupTestDB(t)
	return NewReconciler(NewGormStore(db), zap.NewNop(), opts), db
}

func seedUser(t *testing.T, db *gorm.DB, email, providerUserID string) *models.User {
	t.Helper()
	u := &models.User{Email: email, FirstName: "Seed", LastName: "User"}
	if providerUserID != "" {
		u.ProviderUserID = &providerUserID
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// seedRequest creates a request owned by owner with one item per author.
func seedRequest(t *testing.T, db *gorm.DB, owner *models.User, authors ...*models.User) *models.FeedbackRequest {
	t.Helper()
	req := &models.FeedbackRequest{OwnerID: owner.ID, Title: "Review for " + owner.Email, Prompts: []string{"Strengths?"}}
	for _, a := range authors {
		req.Authors = append(req.Authors, *a)
	}
	require.NoError(t, db.Omit("Authors.*").Create(req).Error)

	for _, a := range authors {
		item := &models.FeedbackItem{RequestID: req.ID, OwnerID: owner.ID, AuthorID: a.ID, Prompt: "Strengths?"}
		require.NoError(t, db.Create(item).Error)
	}
	return req
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	return n
}

func countWhere(t *testing.T, db *gorm.DB, table, column, value string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Where(column+" = ?", value).Count(&n).Error)
	return n
}

func loadUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.Take(&u, "id = ?", id).Error)
	return &u
}

func createdEvent(pid, email string) IdentityEvent {
	return IdentityEvent{Type: EventUserCreated, ProviderUserID: pid, PrimaryEmail: email, FirstName: "Ada", LastName: "Lovelace"}
}

func updatedEvent(pid, email string) IdentityEvent {
	return IdentityEvent{Type: EventUserUpdated, ProviderUserID: pid, PrimaryEmail: email, FirstName: "Ada", LastName: "Lovelace"}
}

// racingStore makes CreateUser lose a unique-key race inside transactions.
type racingStore struct {
	Store
}

func (s racingStore) CreateUser(ctx context.Context, fields UserFields) (*models.User, error) {
	return nil, fmt.Errorf("create user: %w", ErrDuplicateKey)
}

func (s racingStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.Store.Transaction(ctx, func(tx Store) error {
		return fn(racingStore{Store: tx})
	})
}

// failingStore fails one write step inside transactions after the earlier steps ran.
type failingStore struct {
	Store
	failOn string
}

func (s failingStore) DeleteUser(ctx context.Context, id string) error {
	if s.failOn == "delete" {
		return fmt.Errorf("delete user %s: disk full", id)
	}
	return s.Store.DeleteUser(ctx, id)
}

func (s failingStore) UpdateUser(ctx context.Context, id string, fields UserFields) (*models.User, error) {
	if s.failOn == "update" {
		return nil, fmt.Errorf("update user %s: disk full", id)
	}
	return s.Store.UpdateUser(ctx, id, fields)
}

func (s failingStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.Store.Transaction(ctx, func(tx Store) error {
		return fn(failingStore{Store: tx, failOn: s.failOn})
	})
}
