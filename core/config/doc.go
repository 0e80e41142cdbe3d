// Package config provides configuration management for the feedback service.
//
// It uses godotenv to overload a local .env file and Viper to read
// environment variables. Default values come from the `default` struct tags of
// each section, registered by reflection so that AutomaticEnv can see every key.
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and body limit
//   - Database: driver (mysql, sqlite) and connection details
//   - Storage: S3/MinIO credentials and bucket for the event archive
//   - Archive: whether raw webhooks are archived, and under which prefix
//   - Identity: webhook signing secret and reconciliation options
//   - Log: logging level and format
//   - Metrics: Prometheus endpoint toggle and path
//
// Environment variables map onto nested keys, e.g. IDENTITY_WEBHOOK_SECRET ->
// identity.webhook_secret.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
