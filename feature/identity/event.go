package identity

import (
	"encoding/json"
	"errors"
	"fmt"

	"peer-feedback/core/utils"
	"peer-feedback/feature/identity/reconcile"
)

// ErrInvalidPayload is returned for webhook bodies that cannot be turned into an event.
var ErrInvalidPayload = errors.New("invalid webhook payload")

// WebhookPayload is the provider's user lifecycle webhook body.
type WebhookPayload struct {
	Type   string   `json:"type"`
	Object string   `json:"object"`
	Data   UserData `json:"data"`
}

// UserData is the user object carried by a lifecycle webhook.
type UserData struct {
	ID                    string         `json:"id"`
	EmailAddresses        []EmailAddress `json:"email_addresses"`
	PrimaryEmailAddressID string         `json:"primary_email_address_id"`
	FirstName             *string        `json:"first_name"`
	LastName              *string        `json:"last_name"`
	ProfileImageURL       string         `json:"profile_image_url"`
	ImageURL              string         `json:"image_url"`
}

// EmailAddress is one of the addresses attached to a provider user.
type EmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// PrimaryEmail resolves primary_email_address_id against the address list.
func (d UserData) PrimaryEmail() (string, bool) {
	if d.PrimaryEmailAddressID == "" {
		return "", false
	}
	for _, addr := range d.EmailAddresses {
		if addr.ID == d.PrimaryEmailAddressID {
			email := utils.NormalizeEmail(addr.EmailAddress)
			return email, email != ""
		}
	}
	return "", false
}

// DecodeEvent parses a webhook body into an identity event.
// Types other than user.created and user.updated decode with only Type set.
func DecodeEvent(body []byte) (reconcile.IdentityEvent, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return reconcile.IdentityEvent{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if payload.Type == "" {
		return reconcile.IdentityEvent{}, fmt.Errorf("%w: missing type", ErrInvalidPayload)
	}

	event := reconcile.IdentityEvent{Type: reconcile.EventType(payload.Type)}
	if event.Type != reconcile.EventUserCreated && event.Type != reconcile.EventUserUpdated {
		return event, nil
	}

	data := payload.Data
	if data.ID == "" {
		return reconcile.IdentityEvent{}, fmt.Errorf("%w: missing data.id", ErrInvalidPayload)
	}
	email, ok := data.PrimaryEmail()
	if !ok {
		return reconcile.IdentityEvent{}, fmt.Errorf("%w: primary email %q not found for user %s", ErrInvalidPayload, data.PrimaryEmailAddressID, data.ID)
	}

	image := data.ProfileImageURL
	if image == "" {
		image = data.ImageURL
	}

	event.ProviderUserID = data.ID
	event.PrimaryEmail = email
	event.FirstName = utils.Deref(data.FirstName)
	event.LastName = utils.Deref(data.LastName)
	event.ProfileImageURL = image
	return event, nil
}
