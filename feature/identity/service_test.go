package identity

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"peer-feedback/core/metrics"
	"peer-feedback/core/storage/mocks"
	"peer-feedback/feature/identity/archive"
	"peer-feedback/feature/identity/reconcile"
	"peer-feedback/feature/models"

	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestIngest_ArchivesAndReconciles(t *testing.T) {
	db := setupTestDB(t)
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, "events", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "identity/") && strings.HasSuffix(key, "-msg_1.json")
	}), mock.Anything, mock.Anything, mock.Anything).Return(minio.UploadInfo{}, nil)

	svc := NewService(db, archive.New(client, "events", "identity"), zap.NewNop(), reconcile.Options{})

	out, err := svc.Ingest(context.Background(), "msg_1", []byte(webhookBody("user.created", "user_1", "grace@example.com")))
	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionCreate, out.Action)
	assert.Equal(t, "grace@example.com", out.User.Email)
	client.AssertExpectations(t)
}

func TestIngest_ArchiveFailureIsNotFatal(t *testing.T) {
	db := setupTestDB(t)
	client := new(mocks.Client)
	client.On("PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	svc := NewService(db, archive.New(client, "events", "identity"), zap.NewNop(), reconcile.Options{})

	out, err := svc.Ingest(context.Background(), "msg_1", []byte(webhookBody("user.created", "user_1", "grace@example.com")))
	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionCreate, out.Action)
}

func TestIngest_InvalidPayloadIsNotArchived(t *testing.T) {
	db := setupTestDB(t)
	client := new(mocks.Client)
	svc := NewService(db, archive.New(client, "events", "identity"), zap.NewNop(), reconcile.Options{})

	_, err := svc.Ingest(context.Background(), "msg_1", []byte(`{"type":"user.created","data":{}}`))
	assert.ErrorIs(t, err, ErrInvalidPayload)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserLookups(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, zap.NewNop(), reconcile.Options{})
	u := seedUser(t, db, "ada@example.com", "")

	got, err := svc.GetUser(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)

	got, err = svc.FindUserByEmail(context.Background(), " ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = svc.FindUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

// archiveWith returns an archive whose bucket holds bodies, keyed in order.
func archiveWith(bodies map[string]string, keys ...string) (*archive.Archive, *mocks.Client) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "events", mock.Anything).
		Return(func(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			ch := make(chan minio.ObjectInfo, len(keys))
			for _, k := range keys {
				ch <- minio.ObjectInfo{Key: k}
			}
			close(ch)
			return ch
		}).Maybe()
	for key, body := range bodies {
		client.On("GetObject", mock.Anything, "events", key, mock.Anything).
			Return(func() io.ReadCloser { return io.NopCloser(strings.NewReader(body)) }, nil)
	}
	return archive.New(client, "events", "identity"), client
}

func TestReplay(t *testing.T) {
	db := setupTestDB(t)
	unclaimed := seedUser(t, db, "new@example.com", "")

	k1 := "identity/2026/10/19/0000000000000000001-msg_1.json"
	k2 := "identity/2026/10/19/0000000000000000002-msg_2.json"
	arc, _ := archiveWith(map[string]string{
		k1: webhookBody("user.created", "user_1", "old@example.com"),
		k2: webhookBody("user.updated", "user_1", "new@example.com"),
	}, k2, k1)

	svc := NewService(db, arc, zap.NewNop(), reconcile.Options{})

	results, err := svc.Replay(context.Background(), ReplayOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "msg_1", results[0].DeliveryID)
	assert.Equal(t, reconcile.ActionCreate, results[0].Plan.Action)
	assert.Equal(t, reconcile.ActionMerge, results[1].Plan.Action)
	assert.Equal(t, unclaimed.ID, results[1].Plan.MergedUserID)

	// Replaying again converges on the same final state.
	_, err = svc.Replay(context.Background(), ReplayOptions{})
	require.NoError(t, err)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "new@example.com", users[0].Email)
	assert.Equal(t, "user_1", *users[0].ProviderUserID)
}

func TestReplay_DryRun(t *testing.T) {
	db := setupTestDB(t)
	k1 := "identity/2026/10/19/0000000000000000001-msg_1.json"
	arc, _ := archiveWith(map[string]string{k1: webhookBody("user.created", "user_1", "a@example.com")}, k1)
	svc := NewService(db, arc, zap.NewNop(), reconcile.Options{})

	results, err := svc.Replay(context.Background(), ReplayOptions{DryRun: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, reconcile.ActionCreate, results[0].Plan.Action)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestReplay_StopsOrContinuesOnError(t *testing.T) {
	k1 := "identity/2026/10/19/0000000000000000001-msg_1.json"
	k2 := "identity/2026/10/19/0000000000000000002-msg_2.json"
	bodies := map[string]string{
		k1: webhookBody("user.updated", "user_missing", "a@example.com"),
		k2: webhookBody("user.created", "user_2", "b@example.com"),
	}

	t.Run("stop", func(t *testing.T) {
		arc, _ := archiveWith(bodies, k1, k2)
		svc := NewService(setupTestDB(t), arc, zap.NewNop(), reconcile.Options{})

		results, err := svc.Replay(context.Background(), ReplayOptions{})
		assert.ErrorIs(t, err, reconcile.ErrNotFound)
		assert.Len(t, results, 1)
	})

	t.Run("continue", func(t *testing.T) {
		arc, _ := archiveWith(bodies, k1, k2)
		svc := NewService(setupTestDB(t), arc, zap.NewNop(), reconcile.Options{})

		results, err := svc.Replay(context.Background(), ReplayOptions{ContinueOnError: true})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.ErrorIs(t, results[0].Err, reconcile.ErrNotFound)
		assert.NoError(t, results[1].Err)
	})
}

func TestReplay_ArchiveDisabled(t *testing.T) {
	svc := NewService(nil, nil, zap.NewNop(), reconcile.Options{})
	_, err := svc.Replay(context.Background(), ReplayOptions{})
	assert.ErrorIs(t, err, ErrArchiveDisabled)
}

func TestIngest_ConcurrentRedeliveries(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, zap.NewNop(), reconcile.Options{})
	body := []byte(webhookBody("user.created", "user_1", "grace@example.com"))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Ingest(context.Background(), "msg_1", body)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestIngest_DeliveryOutlivesCallerCancel(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, nil, zap.NewNop(), reconcile.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := svc.Ingest(ctx, "msg_1", []byte(webhookBody("user.created", "user_1", "grace@example.com")))
	require.NoError(t, err)
	assert.Equal(t, reconcile.ActionCreate, out.Action)

	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestIngest_RecordsMetrics(t *testing.T) {
	db := setupTestDB(t)
	rec := metrics.New()
	svc := NewService(db, nil, zap.NewNop(), reconcile.Options{}).WithMetrics(rec)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "msg_1", []byte(webhookBody("user.created", "user_1", "grace@example.com")))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "msg_2", []byte(webhookBody("user.created", "user_1", "grace@example.com")))
	require.NoError(t, err)
	_, err = svc.Ingest(ctx, "msg_3", []byte(`{`))
	require.Error(t, err)

	n, err := testutil.GatherAndCount(rec.Registry(), "feedback_identity_events_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "create, noop and invalid series")
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "merge", resultLabel(&reconcile.Outcome{Plan: reconcile.Plan{Action: reconcile.ActionMerge}}, nil))
	assert.Equal(t, "invalid", resultLabel(nil, ErrInvalidPayload))
	assert.Equal(t, "not_found", resultLabel(nil, &reconcile.NotFoundError{ProviderUserID: "x"}))
	assert.Equal(t, "conflict", resultLabel(nil, &reconcile.ConflictError{Email: "a@example.com"}))
	assert.Equal(t, "conflict_retryable", resultLabel(nil, &reconcile.ConflictError{Email: "a@example.com", Retryable: true}))
	assert.Equal(t, "error", resultLabel(nil, &reconcile.TransactionError{Err: assert.AnError}))
}
