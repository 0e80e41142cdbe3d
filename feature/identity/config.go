package identity

// Config holds webhook verification and reconciliation settings.
type Config struct {
	// WebhookSecret is the provider signing secret (whsec_...). Empty disables verification.
	WebhookSecret string `mapstructure:"webhook_secret" default:""`
	// SignatureToleranceSeconds bounds the allowed clock skew of signed deliveries.
	SignatureToleranceSeconds int `mapstructure:"signature_tolerance_seconds" default:"300"`
	// CreateOnMissingUpdate creates the user when an update arrives for an unknown provider id.
	CreateOnMissingUpdate bool `mapstructure:"create_on_missing_update" default:"false"`
}
