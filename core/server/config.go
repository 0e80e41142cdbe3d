package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	// Webhook routes are authenticated by signature instead.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitBytes caps request bodies, webhook payloads included.
	BodyLimitBytes int `mapstructure:"body_limit_bytes" default:"1048576"`
}

// WebhookPathPrefix is the route prefix exempt from API key authentication.
const WebhookPathPrefix = "/webhooks/"

// IsProtected reports whether the API key is enforced.
func (c Config) IsProtected() bool {
	return c.ApiKey != ""
}
