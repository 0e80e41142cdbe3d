// Package feedback implements feedback requests: an owner asks authors to
// answer a list of prompts, each author answers every prompt once.
//
// Authors and owners are addressed by email. An email without a local user
// gets an unclaimed user (no provider id) which the identity package claims or
// merges once that person signs up.
package feedback
