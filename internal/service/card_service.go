package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cardwise/internal/cache"
	"cardwise/internal/errors"
	"cardwise/internal/model"
	"cardwise/internal/repository"
)

const cardListCacheTTL = 5 * time.Minute

// CardService owns the card collection: every write passes the structural
// validation gate, and lookups of missing cards surface ErrCardNotFound. A
// rejected write leaves the store untouched because validation runs fully
// before any repository call.
type CardService interface {
	List(ctx context.Context, accountID uuid.UUID) ([]model.Card, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	Add(ctx context.Context, card *model.Card) (*model.Card, error)
	Update(ctx context.Context, card *model.Card) (*model.Card, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkUsed(ctx context.Context, id uuid.UUID) (*model.Card, error)
}

type cardService struct {
	repo      repository.CardRepository
	validator *CardValidator
	cache     *cache.Client
}

// NewCardService creates a new card service.
func NewCardService(repo repository.CardRepository, validator *CardValidator, cache *cache.Client) CardService {
	return &cardService{
		repo:      repo,
		validator: validator,
		cache:     cache,
	}
}

func (s *cardService) cacheKey(accountID uuid.UUID) string {
	return fmt.Sprintf("cards:%s", accountID.String())
}

// List returns a snapshot of the account's cards in creation order, with
// caching.
func (s *cardService) List(ctx context.Context, accountID uuid.UUID) ([]model.Card, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(accountID)); data != nil {
		var cached []model.Card
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	cards, err := s.repo.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}

	if payload, err := json.Marshal(cards); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(accountID), payload, cardListCacheTTL)
	}

	return cards, nil
}

// GetByID retrieves a single card, returning ErrCardNotFound when absent.
func (s *cardService) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrCardNotFound
		}
		return nil, fmt.Errorf("get card: %w", err)
	}
	return card, nil
}

// Add validates and inserts a new card, returning the stored record.
func (s *cardService) Add(ctx context.Context, card *model.Card) (*model.Card, error) {
	if err := s.validator.Validate(card); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, card); err != nil {
		return nil, fmt.Errorf("create card: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(card.AccountID))
	return card, nil
}

// Update validates and replaces an existing card in place.
func (s *cardService) Update(ctx context.Context, card *model.Card) (*model.Card, error) {
	if err := s.validator.Validate(card); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, card.ID)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrCardNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}

	// The record keeps its identity and position; only the payload changes.
	card.AccountID = existing.AccountID
	card.CreatedAt = existing.CreatedAt
	if err := s.repo.Save(ctx, card); err != nil {
		return nil, fmt.Errorf("update card: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(card.AccountID))
	return card, nil
}

// Delete removes a card, returning ErrCardNotFound when absent.
func (s *cardService) Delete(ctx context.Context, id uuid.UUID) error {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.ErrCardNotFound
		}
		return fmt.Errorf("find card: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.ErrCardNotFound
		}
		return fmt.Errorf("delete card: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(card.AccountID))
	return nil
}

// MarkUsed stamps the card's last-used time. The read-modify-write runs
// inside a repository transaction with a locked read, so concurrent callers
// cannot lose updates. This is the only path that mutates LastUsed.
func (s *cardService) MarkUsed(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var updated *model.Card
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.CardRepository) error {
		card, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		now := time.Now()
		card.LastUsed = &now
		if err := repo.Save(ctx, card); err != nil {
			return err
		}
		updated = card
		return nil
	})
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrCardNotFound
		}
		return nil, fmt.Errorf("mark card used: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(updated.AccountID))
	return updated, nil
}
