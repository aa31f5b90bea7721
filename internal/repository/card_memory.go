package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"cardwise/internal/model"
)

// MemoryCardRepository keeps cards in memory behind the same contract as the
// gorm repository. It is used when the server runs without a database and by
// the service tests. Writes take the write lock; reads return deep copies so
// callers can never mutate the store through a returned value.
type MemoryCardRepository struct {
	mu    sync.RWMutex
	cards []model.Card // insertion order is the list order
}

// NewMemoryCardRepository constructs an empty in-memory card repository.
func NewMemoryCardRepository() *MemoryCardRepository {
	return &MemoryCardRepository{}
}

var _ CardRepository = (*MemoryCardRepository)(nil)

func (r *MemoryCardRepository) Create(_ context.Context, card *model.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.createLocked(card)
}

func (r *MemoryCardRepository) Save(_ context.Context, card *model.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(card)
}

func (r *MemoryCardRepository) FindByID(_ context.Context, id uuid.UUID) (*model.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findLocked(id)
}

func (r *MemoryCardRepository) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.Card, error) {
	// Outside a transaction there is no lock to hold past the call; behaves
	// like FindByID. MarkUsed-style read-modify-write goes through
	// WithTransaction, which holds the store lock for the whole sequence.
	return r.FindByID(context.Background(), id)
}

func (r *MemoryCardRepository) FindByAccountID(_ context.Context, accountID uuid.UUID) ([]model.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(accountID), nil
}

func (r *MemoryCardRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteLocked(id)
}

// WithTransaction holds the write lock for the duration of fn, so the
// read-modify-write sequences inside fn cannot interleave with other writers.
func (r *MemoryCardRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CardRepository) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx, &memoryTxRepo{store: r})
}

// memoryTxRepo is the view handed to WithTransaction callbacks. The caller
// already holds the store lock, so it delegates to the unlocked helpers.
type memoryTxRepo struct {
	store *MemoryCardRepository
}

var _ CardRepository = (*memoryTxRepo)(nil)

func (t *memoryTxRepo) Create(_ context.Context, card *model.Card) error { return t.store.createLocked(card) }
func (t *memoryTxRepo) Save(_ context.Context, card *model.Card) error   { return t.store.saveLocked(card) }
func (t *memoryTxRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Card, error) {
	return t.store.findLocked(id)
}
func (t *memoryTxRepo) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*model.Card, error) {
	return t.store.findLocked(id)
}
func (t *memoryTxRepo) FindByAccountID(_ context.Context, accountID uuid.UUID) ([]model.Card, error) {
	return t.store.listLocked(accountID), nil
}
func (t *memoryTxRepo) Delete(_ context.Context, id uuid.UUID) error { return t.store.deleteLocked(id) }
func (t *memoryTxRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CardRepository) error) error {
	return fn(ctx, t)
}

func (r *MemoryCardRepository) createLocked(card *model.Card) error {
	if card.ID == uuid.Nil {
		card.ID = uuid.New()
	}
	now := time.Now()
	card.CreatedAt = now
	card.UpdatedAt = now
	r.cards = append(r.cards, cloneCard(*card))
	return nil
}

func (r *MemoryCardRepository) saveLocked(card *model.Card) error {
	for i := range r.cards {
		if r.cards[i].ID == card.ID {
			card.CreatedAt = r.cards[i].CreatedAt
			card.UpdatedAt = time.Now()
			r.cards[i] = cloneCard(*card)
			return nil
		}
	}
	return ErrNotFound
}

func (r *MemoryCardRepository) findLocked(id uuid.UUID) (*model.Card, error) {
	for i := range r.cards {
		if r.cards[i].ID == id {
			card := cloneCard(r.cards[i])
			return &card, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryCardRepository) listLocked(accountID uuid.UUID) []model.Card {
	out := make([]model.Card, 0, len(r.cards))
	for i := range r.cards {
		if r.cards[i].AccountID == accountID {
			out = append(out, cloneCard(r.cards[i]))
		}
	}
	return out
}

func (r *MemoryCardRepository) deleteLocked(id uuid.UUID) error {
	for i := range r.cards {
		if r.cards[i].ID == id {
			r.cards = append(r.cards[:i], r.cards[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// cloneCard deep-copies the card's maps and slices so stored records and
// returned snapshots never share mutable state.
func cloneCard(c model.Card) model.Card {
	if c.Categories != nil {
		cats := make([]model.Category, len(c.Categories))
		copy(cats, c.Categories)
		c.Categories = cats
	}
	if c.Cashback != nil {
		cashback := make(map[model.Category]float64, len(c.Cashback))
		for k, v := range c.Cashback {
			cashback[k] = v
		}
		c.Cashback = cashback
	}
	if c.Perks != nil {
		perks := make(map[model.Category][]string, len(c.Perks))
		for k, v := range c.Perks {
			list := make([]string, len(v))
			copy(list, v)
			perks[k] = list
		}
		c.Perks = perks
	}
	if c.LastUsed != nil {
		lastUsed := *c.LastUsed
		c.LastUsed = &lastUsed
	}
	return c
}
