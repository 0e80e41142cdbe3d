// Package models defines the GORM models shared by the identity and feedback features.
//
// # Tables
//
//   - users: one row per person, unique by email and by provider user id.
//   - feedback_requests: owned by a user, addressed to authors.
//   - feedback_request_authors: many-to-many join between requests and users.
//   - feedback_items: one answer slot per author and prompt.
//
// Every foreign reference to a user is a plain string column (owner_id,
// author_id, user_id). Merging two users is therefore a set of UPDATEs over
// those columns, which the identity store performs inside one transaction.
package models
