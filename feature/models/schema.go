package models

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	TableUsers            = "users"
	TableFeedbackRequests = "feedback_requests"
	TableFeedbackItems    = "feedback_items"
	// TableRequestAuthors is the many-to-many join between requests and authors.
	TableRequestAuthors = "feedback_request_authors"
)

// RequiredColumns lists, per table, the columns identity reconciliation reads or rewrites.
var RequiredColumns = map[string][]string{
	TableUsers:            {"id", "provider_user_id", "email", "first_name", "last_name", "profile_image_url"},
	TableFeedbackRequests: {"id", "owner_id"},
	TableFeedbackItems:    {"id", "owner_id", "author_id"},
	TableRequestAuthors:   {"feedback_request_id", "user_id"},
}

// AutoMigrate creates or updates every table of the application.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}, &FeedbackRequest{}, &FeedbackItem{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
