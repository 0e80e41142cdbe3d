package feedback

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"peer-feedback/core/database"
	"peer-feedback/feature/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := setupTestDB(t)
	return NewService(db, zap.NewNop()), db
}

func TestCreateRequest(t *testing.T) {
	svc, db := newTestService(t)
	pid := "user_owner"
	owner := &models.User{Email: "owner@example.com", ProviderUserID: &pid}
	require.NoError(t, db.Create(owner).Error)

	req, err := svc.CreateRequest(context.Background(), CreateRequestInput{
		OwnerEmail:   "Owner@Example.com",
		Title:        "  Q3 review ",
		Prompts:      []string{"Strengths?", " ", "Growth areas?"},
		AuthorEmails: []string{"a@example.com", "B@example.com", "a@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, owner.ID, req.OwnerID)
	assert.Equal(t, "Q3 review", req.Title)
	assert.Equal(t, []string{"Strengths?", "Growth areas?"}, req.Prompts)
	assert.Len(t, req.Authors, 2)
	assert.Len(t, req.Items, 4)

	// Unknown authors exist now, unclaimed.
	var authors []models.User
	require.NoError(t, db.Where("email IN ?", []string{"a@example.com", "b@example.com"}).Find(&authors).Error)
	require.Len(t, authors, 2)
	for _, a := range authors {
		assert.False(t, a.IsClaimed(), a.Email)
	}

	var joins int64
	require.NoError(t, db.Table(models.TableRequestAuthors).Where("feedback_request_id = ?", req.ID).Count(&joins).Error)
	assert.Equal(t, int64(2), joins)
}

func TestCreateRequest_ReusesExistingUsers(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateRequest(ctx, CreateRequestInput{OwnerEmail: "o@example.com", Title: "One", Prompts: []string{"p"}, AuthorEmails: []string{"a@example.com"}})
	require.NoError(t, err)
	_, err = svc.CreateRequest(ctx, CreateRequestInput{OwnerEmail: "a@example.com", Title: "Two", Prompts: []string{"p"}, AuthorEmails: []string{"o@example.com"}})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestCreateRequest_Invalid(t *testing.T) {
	svc, db := newTestService(t)

	tests := []struct {
		name string
		in   CreateRequestInput
	}{
		{"no owner", CreateRequestInput{Title: "t", Prompts: []string{"p"}, AuthorEmails: []string{"a@example.com"}}},
		{"no title", CreateRequestInput{OwnerEmail: "o@example.com", Prompts: []string{"p"}, AuthorEmails: []string{"a@example.com"}}},
		{"no prompts", CreateRequestInput{OwnerEmail: "o@example.com", Title: "t", Prompts: []string{" "}, AuthorEmails: []string{"a@example.com"}}},
		{"no authors", CreateRequestInput{OwnerEmail: "o@example.com", Title: "t", Prompts: []string{"p"}}},
		{"self review", CreateRequestInput{OwnerEmail: "o@example.com", Title: "t", Prompts: []string{"p"}, AuthorEmails: []string{"O@example.com"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRequest(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestListOwnedAndAuthored(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	req, err := svc.CreateRequest(ctx, CreateRequestInput{OwnerEmail: "o@example.com", Title: "t", Prompts: []string{"p1", "p2"}, AuthorEmails: []string{"a@example.com"}})
	require.NoError(t, err)

	owned, err := svc.ListOwned(ctx, req.OwnerID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Len(t, owned[0].Authors, 1)
	assert.Len(t, owned[0].Items, 2)

	var author models.User
	require.NoError(t, db.Take(&author, "email = ?", "a@example.com").Error)
	authored, err := svc.ListAuthored(ctx, author.ID, false)
	require.NoError(t, err)
	require.Len(t, authored, 2)

	items, err := svc.ListAuthored(ctx, req.OwnerID, false)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Answered items drop out of the pending view only.
	_, err = svc.SubmitAnswer(ctx, authored[0].ID, author.ID, "Clear goals")
	require.NoError(t, err)

	pending, err := svc.ListAuthored(ctx, author.ID, true)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, authored[1].ID, pending[0].ID)
	assert.False(t, pending[0].IsSubmitted())

	items, err = svc.ListAuthored(ctx, author.ID, false)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestSubmitAnswer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	req, err := svc.CreateRequest(ctx, CreateRequestInput{OwnerEmail: "o@example.com", Title: "t", Prompts: []string{"p"}, AuthorEmails: []string{"a@example.com"}})
	require.NoError(t, err)
	item := req.Items[0]

	_, err = svc.SubmitAnswer(ctx, item.ID, req.OwnerID, "not mine")
	assert.ErrorIs(t, err, ErrNotAuthor)

	_, err = svc.SubmitAnswer(ctx, item.ID, item.AuthorID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SubmitAnswer(ctx, "missing", item.AuthorID, "answer")
	assert.ErrorIs(t, err, ErrItemNotFound)

	got, err := svc.SubmitAnswer(ctx, item.ID, item.AuthorID, " Great collaborator ")
	require.NoError(t, err)
	assert.Equal(t, "Great collaborator", got.Answer)
	require.NotNil(t, got.SubmittedAt)
	assert.True(t, fixed.Equal(*got.SubmittedAt))

	_, err = svc.SubmitAnswer(ctx, item.ID, item.AuthorID, "again")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}
