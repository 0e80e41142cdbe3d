package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"peer-feedback/core/metrics"
	"peer-feedback/core/utils"
	"peer-feedback/feature/identity/archive"
	"peer-feedback/feature/identity/reconcile"
	"peer-feedback/feature/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned by the user lookups.
	ErrUserNotFound = errors.New("user not found")
	// ErrArchiveDisabled is returned by Replay when no archive is configured.
	ErrArchiveDisabled = errors.New("event archive is disabled")
)

// Service ingests identity webhooks and serves user lookups.
type Service struct {
	db         *gorm.DB
	reconciler *reconcile.Reconciler
	archive    *archive.Archive
	logger     *zap.Logger
	metrics    *metrics.Recorder
	// inflight coalesces concurrent redeliveries of the same delivery id.
	inflight singleflight.Group
}

// NewService creates a new identity service. arc may be nil when archiving is disabled.
func NewService(db *gorm.DB, arc *archive.Archive, logger *zap.Logger, opts reconcile.Options) *Service {
	return &Service{
		db:         db,
		reconciler: reconcile.NewReconciler(reconcile.NewGormStore(db), logger, opts),
		archive:    arc,
		logger:     logger,
	}
}

// WithMetrics makes the service count ingested events on rec.
func (s *Service) WithMetrics(rec *metrics.Recorder) *Service {
	s.metrics = rec
	return s
}

// Ingest decodes one webhook delivery, archives it and reconciles it.
// Archiving is best effort and never fails the delivery.
//
// Concurrent calls with the same deliveryID share one execution. That
// execution runs on a context detached from ctx's cancellation, so a
// redelivery is not failed by the first caller hanging up. Values carried
// by ctx are still visible to it.
func (s *Service) Ingest(ctx context.Context, deliveryID string, body []byte) (*reconcile.Outcome, error) {
	if deliveryID == "" {
		return s.ingest(ctx, deliveryID, body)
	}

	shared := context.WithoutCancel(ctx)
	v, err, coalesced := s.inflight.Do(deliveryID, func() (any, error) {
		return s.ingest(shared, deliveryID, body)
	})
	if coalesced {
		s.logger.Debug("Coalesced concurrent delivery", zap.String("delivery_id", deliveryID))
	}
	if err != nil {
		return nil, err
	}
	return v.(*reconcile.Outcome), nil
}

func (s *Service) ingest(ctx context.Context, deliveryID string, body []byte) (*reconcile.Outcome, error) {
	start := time.Now()
	event, err := DecodeEvent(body)
	if err != nil {
		s.metrics.ObserveIdentityEvent("undecodable", resultLabel(nil, err), time.Since(start))
		return nil, err
	}

	if s.archive != nil {
		if key, err := s.archive.Put(ctx, deliveryID, body); err != nil {
			s.logger.Warn("Failed to archive identity event", zap.String("delivery_id", deliveryID), zap.Error(err))
		} else {
			s.logger.Debug("Archived identity event", zap.String("key", key))
		}
	}

	out, err := s.reconciler.Handle(ctx, event)
	s.metrics.ObserveIdentityEvent(string(event.Type), resultLabel(out, err), time.Since(start))
	return out, err
}

// resultLabel names the outcome of one event for metrics.
func resultLabel(out *reconcile.Outcome, err error) string {
	switch {
	case err == nil:
		return string(out.Action)
	case errors.Is(err, ErrInvalidPayload), errors.Is(err, reconcile.ErrInvalidEvent):
		return "invalid"
	case errors.Is(err, reconcile.ErrNotFound):
		return "not_found"
	case errors.Is(err, reconcile.ErrConflict):
		if reconcile.IsRetryable(err) {
			return "conflict_retryable"
		}
		return "conflict"
	default:
		return "error"
	}
}

// GetUser returns the user with the given local id.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", id, err)
	}
	return &user, nil
}

// FindUserByEmail returns the user holding email, compared case-insensitively.
func (s *Service) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "email = ?", utils.NormalizeEmail(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// ReplayOptions selects and controls an archive replay.
type ReplayOptions struct {
	// Prefix limits the replay to keys under it, relative to the archive prefix (e.g. "2026/10/19").
	Prefix string
	// DryRun computes plans without writing. Each plan is computed against the
	// current store, so later plans do not see the effect of earlier ones.
	DryRun bool
	// ContinueOnError keeps going after a failed event.
	ContinueOnError bool
}

// ReplayResult is the result of replaying one archived event.
type ReplayResult struct {
	Key        string
	DeliveryID string
	Plan       *reconcile.Plan
	Err        error
}

// Replay re-applies archived events in delivery order.
// Without ContinueOnError it stops at the first failure and returns it.
func (s *Service) Replay(ctx context.Context, opts ReplayOptions) ([]ReplayResult, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	keys, err := s.archive.List(ctx, opts.Prefix)
	if err != nil {
		return nil, err
	}

	results := make([]ReplayResult, 0, len(keys))
	for _, key := range keys {
		res := s.replayOne(ctx, key, opts.DryRun)
		results = append(results, res)

		if res.Err != nil {
			s.logger.Warn("Replay of identity event failed", zap.String("key", key), zap.Error(res.Err))
			if !opts.ContinueOnError {
				return results, fmt.Errorf("replay stopped at %s: %w", key, res.Err)
			}
		}
	}
	return results, nil
}

func (s *Service) replayOne(ctx context.Context, key string, dryRun bool) ReplayResult {
	res := ReplayResult{Key: key, DeliveryID: archive.DeliveryID(key)}

	body, err := s.archive.Get(ctx, key)
	if err != nil {
		res.Err = err
		return res
	}
	event, err := DecodeEvent(body)
	if err != nil {
		res.Err = err
		return res
	}

	if dryRun {
		res.Plan, res.Err = s.reconciler.Plan(ctx, event)
		return res
	}

	out, err := s.reconciler.Handle(ctx, event)
	if err != nil {
		res.Err = err
		return res
	}
	res.Plan = &out.Plan
	return res
}
