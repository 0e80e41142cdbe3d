package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeedbackRequest is a set of prompts an owner addresses to one or more authors.
type FeedbackRequest struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	OwnerID   string         `gorm:"type:varchar(36);index;not null" json:"owner_id"`
	Title     string         `gorm:"type:varchar(200);not null" json:"title"`
	Prompts   []string       `gorm:"serializer:json;type:text" json:"prompts"`
	Authors   []User         `gorm:"many2many:feedback_request_authors;" json:"authors,omitempty"`
	Items     []FeedbackItem `gorm:"foreignKey:RequestID" json:"items,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName pins the table name.
func (FeedbackRequest) TableName() string {
	return TableFeedbackRequests
}

// BeforeCreate assigns a UUID when the caller did not.
func (r *FeedbackRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// FeedbackItem is one author's answer to one prompt of a request.
// OwnerID mirrors the request owner so that reviews can be listed without a join.
type FeedbackItem struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	RequestID   string     `gorm:"type:varchar(36);index;not null" json:"request_id"`
	OwnerID     string     `gorm:"type:varchar(36);index;not null" json:"owner_id"`
	AuthorID    string     `gorm:"type:varchar(36);index;not null" json:"author_id"`
	Prompt      string     `gorm:"type:text;not null" json:"prompt"`
	Answer      string     `gorm:"type:text" json:"answer"`
	SubmittedAt *time.Time `json:"submitted_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName pins the table name.
func (FeedbackItem) TableName() string {
	return TableFeedbackItems
}

// BeforeCreate assigns a UUID when the caller did not.
func (i *FeedbackItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// IsSubmitted reports whether the author has submitted an answer.
func (i *FeedbackItem) IsSubmitted() bool {
	return i.SubmittedAt != nil
}
