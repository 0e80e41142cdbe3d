// Package server holds the HTTP server configuration and constants.
//
// The start command owns the Fiber application; this package only defines the
// settings it reads (port, API key, body limit) and the webhook route prefix
// that is authenticated by signature rather than by API key.
package server
