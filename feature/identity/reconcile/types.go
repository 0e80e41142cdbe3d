package reconcile

import (
	"peer-feedback/core/utils"
	"peer-feedback/feature/models"
)

// EventType is the provider's lifecycle event name.
type EventType string

const (
	EventUserCreated EventType = "user.created"
	EventUserUpdated EventType = "user.updated"
)

// IdentityEvent is a provider lifecycle event reduced to the fields reconciliation needs.
type IdentityEvent struct {
	Type            EventType `json:"type"`
	ProviderUserID  string    `json:"provider_user_id"`
	PrimaryEmail    string    `json:"primary_email"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	ProfileImageURL string    `json:"profile_image_url"`
}

// UserFields is the provider-sourced state written onto a local user.
type UserFields struct {
	ProviderUserID  *string
	Email           string
	FirstName       string
	LastName        string
	ProfileImageURL *string
}

// fieldsFromEvent builds the claimed state an event asks for.
func fieldsFromEvent(e IdentityEvent) UserFields {
	pid := e.ProviderUserID
	return UserFields{
		ProviderUserID:  &pid,
		Email:           utils.NormalizeEmail(e.PrimaryEmail),
		FirstName:       e.FirstName,
		LastName:        e.LastName,
		ProfileImageURL: utils.StringPtr(e.ProfileImageURL),
	}
}

// matches reports whether u already carries exactly these fields.
func (f UserFields) matches(u *models.User) bool {
	return utils.EqualPtr(u.ProviderUserID, f.ProviderUserID) &&
		u.Email == f.Email &&
		u.FirstName == f.FirstName &&
		u.LastName == f.LastName &&
		utils.EqualPtr(u.ProfileImageURL, f.ProfileImageURL)
}

// ActionType is the decision taken for one event.
type ActionType string

const (
	// ActionCreate inserts a new claimed user.
	ActionCreate ActionType = "create"
	// ActionClaim links an unclaimed user, found by email, to the provider identity.
	ActionClaim ActionType = "claim"
	// ActionUpdate refreshes the claimed user in place, possibly with a new email.
	ActionUpdate ActionType = "update"
	// ActionMerge folds an unclaimed duplicate into the claimed user.
	ActionMerge ActionType = "merge"
	// ActionNoop means the claimed user already matches the event.
	ActionNoop ActionType = "noop"
	// ActionIgnore is returned for event types reconciliation does not handle.
	ActionIgnore ActionType = "ignore"
)

// Plan is the decision for one event, computed from the records currently in the store.
type Plan struct {
	Action ActionType `json:"action"`
	// UserID is the surviving user. Empty for create (not yet known) and ignore.
	UserID string `json:"user_id,omitempty"`
	// MergedUserID is the duplicate removed by a merge.
	MergedUserID string `json:"merged_user_id,omitempty"`
	// Reason explains the decision for logs and dry runs.
	Reason string `json:"reason"`

	fields  UserFields
	current *models.User
}

// Outcome is an applied plan together with the resulting user.
type Outcome struct {
	Plan
	User *models.User `json:"user,omitempty"`
}
