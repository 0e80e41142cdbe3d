package reconcile

import (
	"context"
	"errors"
	"fmt"

	"peer-feedback/feature/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the persistence the reconciler depends on.
//
// The find methods return (nil, nil) when no record matches. Writes that
// violate a unique constraint return an error matching ErrDuplicateKey.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByProviderID(ctx context.Context, providerUserID string) (*models.User, error)
	CreateUser(ctx context.Context, fields UserFields) (*models.User, error)
	UpdateUser(ctx context.Context, id string, fields UserFields) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	// ReassignRelationships moves every feedback reference from one user to another.
	ReassignRelationships(ctx context.Context, fromUserID, toUserID string) error
	// Transaction runs fn against a Store bound to one database transaction.
	// fn's error rolls the transaction back and is returned unchanged.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// GormStore implements Store on GORM.
type GormStore struct {
	db   *gorm.DB
	inTx bool
}

// NewGormStore creates a store over db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// lookup applies a row lock inside transactions. SQLite ignores the clause.
func (s *GormStore) lookup(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx)
	if s.inTx {
		q = q.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	return q
}

func (s *GormStore) findOne(ctx context.Context, column, value string) (*models.User, error) {
	var user models.User
	err := s.lookup(ctx).Where(column+" = ?", value).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by %s: %w", column, err)
	}
	return &user, nil
}

// FindByEmail returns the user holding email, if any.
func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "email", email)
}

// FindByProviderID returns the user claimed by providerUserID, if any.
func (s *GormStore) FindByProviderID(ctx context.Context, providerUserID string) (*models.User, error) {
	return s.findOne(ctx, "provider_user_id", providerUserID)
}

// CreateUser inserts a new user.
func (s *GormStore) CreateUser(ctx context.Context, fields UserFields) (*models.User, error) {
	user := models.User{
		ProviderUserID:  fields.ProviderUserID,
		Email:           fields.Email,
		FirstName:       fields.FirstName,
		LastName:        fields.LastName,
		ProfileImageURL: fields.ProfileImageURL,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, translate("create user", err)
	}
	return &user, nil
}

// UpdateUser overwrites the provider-sourced fields of user id.
func (s *GormStore) UpdateUser(ctx context.Context, id string, fields UserFields) (*models.User, error) {
	// A map writes empty strings and nils; Updates with a struct would skip them.
	updates := map[string]any{
		"provider_user_id":  fields.ProviderUserID,
		"email":             fields.Email,
		"first_name":        fields.FirstName,
		"last_name":         fields.LastName,
		"profile_image_url": fields.ProfileImageURL,
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, translate("update user", err)
	}

	// RowsAffected is unreliable on MySQL for unchanged rows; the reload detects a missing id.
	var user models.User
	if err := s.db.WithContext(ctx).Take(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload user %s: %w", id, err)
	}
	return &user, nil
}

// DeleteUser hard-deletes user id.
func (s *GormStore) DeleteUser(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	return nil
}

// ReassignRelationships moves request ownership, request authorship and item
// ownership/authorship from one user to another. Authorship rows that would
// duplicate an existing row of the target user are dropped instead of moved.
func (s *GormStore) ReassignRelationships(ctx context.Context, fromUserID, toUserID string) error {
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.FeedbackRequest{}).
		Where("owner_id = ?", fromUserID).
		Update("owner_id", toUserID).Error; err != nil {
		return fmt.Errorf("failed to reassign request owners: %w", err)
	}

	if err := db.Model(&models.FeedbackItem{}).
		Where("owner_id = ?", fromUserID).
		Update("owner_id", toUserID).Error; err != nil {
		return fmt.Errorf("failed to reassign item owners: %w", err)
	}

	if err := db.Model(&models.FeedbackItem{}).
		Where("author_id = ?", fromUserID).
		Update("author_id", toUserID).Error; err != nil {
		return fmt.Errorf("failed to reassign item authors: %w", err)
	}

	// MySQL rejects a DELETE whose subquery reads the same table, so the
	// shared request ids are loaded first.
	var shared []string
	if err := db.Table(models.TableRequestAuthors).
		Where("user_id = ?", toUserID).
		Pluck("feedback_request_id", &shared).Error; err != nil {
		return fmt.Errorf("failed to load shared authorships: %w", err)
	}

	if len(shared) > 0 {
		if err := db.Exec(
			"DELETE FROM "+models.TableRequestAuthors+" WHERE user_id = ? AND feedback_request_id IN ?",
			fromUserID, shared,
		).Error; err != nil {
			return fmt.Errorf("failed to drop duplicate authorships: %w", err)
		}
	}

	if err := db.Exec(
		"UPDATE "+models.TableRequestAuthors+" SET user_id = ? WHERE user_id = ?",
		toUserID, fromUserID,
	).Error; err != nil {
		return fmt.Errorf("failed to reassign request authors: %w", err)
	}

	return nil
}

// Transaction runs fn in a database transaction. Nested calls reuse the outer one.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
}

func translate(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w: %v", op, ErrDuplicateKey, err)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
