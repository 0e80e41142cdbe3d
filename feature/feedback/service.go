package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"peer-feedback/core/utils"
	"peer-feedback/feature/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrInvalidInput is returned for malformed requests and answers.
	ErrInvalidInput = errors.New("invalid input")
	// ErrItemNotFound is returned when a feedback item does not exist.
	ErrItemNotFound = errors.New("feedback item not found")
	// ErrNotAuthor is returned when someone other than the author answers an item.
	ErrNotAuthor = errors.New("user is not the author of this item")
	// ErrAlreadySubmitted is returned when an item was already answered.
	ErrAlreadySubmitted = errors.New("feedback item already submitted")
)

// CreateRequestInput describes a new feedback request.
type CreateRequestInput struct {
	OwnerEmail   string   `json:"owner_email"`
	Title        string   `json:"title"`
	Prompts      []string `json:"prompts"`
	AuthorEmails []string `json:"author_emails"`
}

// Service manages feedback requests and answers.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new feedback service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger, now: time.Now}
}

// CreateRequest creates a request with one item per author and prompt.
// Owner and authors without a local user are created unclaimed, to be claimed
// when they sign up with the identity provider.
func (s *Service) CreateRequest(ctx context.Context, in CreateRequestInput) (*models.FeedbackRequest, error) {
	owner, authors, title, prompts, err := normalizeInput(in)
	if err != nil {
		return nil, err
	}

	var req *models.FeedbackRequest
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := ensureUsers(tx, append([]string{owner}, authors...))
		if err != nil {
			return err
		}

		req = &models.FeedbackRequest{
			OwnerID: users[owner].ID,
			Title:   title,
			Prompts: prompts,
		}
		for _, email := range authors {
			req.Authors = append(req.Authors, *users[email])
		}
		// Authors already exist; only the join rows are written.
		if err := tx.Omit("Authors.*").Create(req).Error; err != nil {
			return fmt.Errorf("failed to create feedback request: %w", err)
		}

		items := make([]models.FeedbackItem, 0, len(authors)*len(prompts))
		for _, email := range authors {
			for _, prompt := range prompts {
				items = append(items, models.FeedbackItem{
					RequestID: req.ID,
					OwnerID:   req.OwnerID,
					AuthorID:  users[email].ID,
					Prompt:    prompt,
				})
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create feedback items: %w", err)
		}
		req.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Feedback request created",
		zap.String("request_id", req.ID),
		zap.String("owner_id", req.OwnerID),
		zap.Int("authors", len(authors)),
		zap.Int("items", len(req.Items)),
	)
	return req, nil
}

func normalizeInput(in CreateRequestInput) (owner string, authors []string, title string, prompts []string, err error) {
	owner = utils.NormalizeEmail(in.OwnerEmail)
	if owner == "" {
		return "", nil, "", nil, fmt.Errorf("%w: owner email is required", ErrInvalidInput)
	}
	title = strings.TrimSpace(in.Title)
	if title == "" {
		return "", nil, "", nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	for _, p := range in.Prompts {
		if p = strings.TrimSpace(p); p != "" {
			prompts = append(prompts, p)
		}
	}
	if len(prompts) == 0 {
		return "", nil, "", nil, fmt.Errorf("%w: at least one prompt is required", ErrInvalidInput)
	}

	seen := map[string]bool{}
	for _, e := range in.AuthorEmails {
		e = utils.NormalizeEmail(e)
		if e == "" || seen[e] {
			continue
		}
		if e == owner {
			return "", nil, "", nil, fmt.Errorf("%w: owner cannot author their own request", ErrInvalidInput)
		}
		seen[e] = true
		authors = append(authors, e)
	}
	if len(authors) == 0 {
		return "", nil, "", nil, fmt.Errorf("%w: at least one author is required", ErrInvalidInput)
	}
	return owner, authors, title, prompts, nil
}

// ensureUsers returns the users holding emails, creating missing ones unclaimed.
func ensureUsers(tx *gorm.DB, emails []string) (map[string]*models.User, error) {
	for _, email := range emails {
		u := models.User{Email: email}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&u).Error
		if err != nil {
			return nil, fmt.Errorf("failed to ensure user %s: %w", email, err)
		}
	}

	var users []models.User
	if err := tx.Where("email IN ?", emails).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	byEmail := make(map[string]*models.User, len(users))
	for i := range users {
		byEmail[users[i].Email] = &users[i]
	}
	for _, email := range emails {
		if byEmail[email] == nil {
			return nil, fmt.Errorf("user %s vanished during request creation", email)
		}
	}
	return byEmail, nil
}

// ListOwned returns the requests owned by userID, newest first.
func (s *Service) ListOwned(ctx context.Context, userID string) ([]models.FeedbackRequest, error) {
	var reqs []models.FeedbackRequest
	err := s.db.WithContext(ctx).
		Preload("Authors").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Where("owner_id = ?", userID).
		Order("created_at DESC, id").
		Find(&reqs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list owned requests: %w", err)
	}
	return reqs, nil
}

// ListAuthored returns the items userID has to answer, oldest first.
// With pendingOnly set, answered items are left out.
func (s *Service) ListAuthored(ctx context.Context, userID string, pendingOnly bool) ([]models.FeedbackItem, error) {
	var items []models.FeedbackItem
	query := s.db.WithContext(ctx).Where("author_id = ?", userID)
	if pendingOnly {
		query = query.Where("submitted_at IS NULL")
	}
	err := query.Order("created_at, id").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list authored items: %w", err)
	}
	return items, nil
}

// SubmitAnswer records authorID's answer to an item. Answers are final.
func (s *Service) SubmitAnswer(ctx context.Context, itemID, authorID, answer string) (*models.FeedbackItem, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil, fmt.Errorf("%w: answer is required", ErrInvalidInput)
	}

	var item models.FeedbackItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Take(&item, "id = ?", itemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load feedback item: %w", err)
		}

		if item.AuthorID != authorID {
			return ErrNotAuthor
		}
		if item.IsSubmitted() {
			return ErrAlreadySubmitted
		}

		now := s.now().UTC()
		item.Answer = answer
		item.SubmittedAt = &now
		if err := tx.Model(&item).Select("answer", "submitted_at").Updates(&item).Error; err != nil {
			return fmt.Errorf("failed to save answer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}
