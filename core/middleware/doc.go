// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation for the JSON API. Webhook routes are skipped
//     through Config.Next because the identity provider signs them instead.
//   - rayid: assigns a RayID to every request, stores it in the Fiber locals
//     and echoes it in the X-Ray-ID response header for tracing.
package middleware
