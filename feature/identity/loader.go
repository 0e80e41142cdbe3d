package identity

import (
	"time"

	"peer-feedback/core/metrics"
	"peer-feedback/feature/identity/archive"
	"peer-feedback/feature/identity/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the identity feature. arc and rec may be nil.
func NewFeature(db *gorm.DB, arc *archive.Archive, rec *metrics.Recorder, logger *zap.Logger, cfg Config) (*Feature, error) {
	var verifier *Verifier
	if cfg.WebhookSecret != "" {
		v, err := NewVerifier(cfg.WebhookSecret, time.Duration(cfg.SignatureToleranceSeconds)*time.Second)
		if err != nil {
			return nil, err
		}
		verifier = v
	} else {
		logger.Warn("Identity webhook secret is not set, signatures will not be verified")
	}

	svc := NewService(db, arc, logger, reconcile.Options{CreateOnMissingUpdate: cfg.CreateOnMissingUpdate}).WithMetrics(rec)
	return &Feature{service: svc, handler: NewHandler(svc, verifier)}, nil
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "identity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
