// Package metrics exposes Prometheus metrics for the HTTP server and identity
// reconciliation.
//
//	rec := metrics.New()
//	app.Use(rec.Middleware())
//	app.Get(cfg.Metrics.Path, rec.Handler())
package metrics
