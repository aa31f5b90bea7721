package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cardwise/internal/model"
)

// CardRepository defines card persistence operations.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	Save(ctx context.Context, card *model.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Card, error)
	FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]model.Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// WithTransaction runs fn with a repository whose writes are serialized
	// against concurrent mutations of the same records.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CardRepository) error) error
}

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a card repository backed by gorm.
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

// Create inserts a new card.
func (r *cardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

// Save replaces an existing card record.
func (r *cardRepository) Save(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Save(card).Error
}

// FindByID finds a card by ID.
func (r *cardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		return nil, translateError(err)
	}
	return &card, nil
}

// FindByIDForUpdate finds a card by ID with a row-level lock for update.
func (r *cardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", id).First(&card).Error; err != nil {
		return nil, translateError(err)
	}
	return &card, nil
}

// FindByAccountID lists all cards for an account in creation order.
func (r *cardRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	if err := r.db.WithContext(ctx).Where("account_id = ?", accountID).
		Order("created_at asc, id asc").Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

// Delete removes a card by ID.
func (r *cardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Card{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// WithTransaction executes fn within a database transaction.
func (r *cardRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CardRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &cardRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func translateError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
