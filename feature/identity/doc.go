// Package identity receives identity provider webhooks and keeps local users
// in step with them.
//
// A delivery is verified (svix-id, svix-timestamp and svix-signature headers,
// HMAC-SHA256 keyed with the whsec_ secret), decoded into a
// reconcile.IdentityEvent, optionally archived to object storage and handed to
// the reconciler. Errors map to HTTP statuses:
//
//	400  payload cannot be decoded or lacks data.id / a primary email
//	401  signature or timestamp rejected
//	404  user.updated for a provider id with no local user
//	409  email conflict; "retryable" tells the provider whether to redeliver
//	500  store failure
//
// Unknown event types are answered with 200 and action "ignore".
//
// Archived events can be re-applied in delivery order with Service.Replay.
package identity
