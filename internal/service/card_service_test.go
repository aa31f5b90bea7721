package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cardwise/internal/errors"
	"cardwise/internal/model"
	"cardwise/internal/repository"
)

// MockCardRepository is a mock implementation of CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Save(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) FindByAccountID(ctx context.Context, accountID uuid.UUID) ([]model.Card, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Card), args.Error(1)
}

func (m *MockCardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.CardRepository) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func newTestCardService() (CardService, *repository.MemoryCardRepository) {
	repo := repository.NewMemoryCardRepository()
	return NewCardService(repo, NewCardValidator(), nil), repo
}

func TestCardService_AddGetRoundTrip(t *testing.T) {
	svc, _ := newTestCardService()
	ctx := context.Background()

	card := validCard()
	card.Categories = []model.Category{model.CategoryDining}
	card.Cashback = map[model.Category]float64{model.CategoryDining: 3}
	card.Perks = map[model.Category][]string{model.CategoryTravel: {"Lounge access"}}

	stored, err := svc.Add(ctx, card)
	require.NoError(t, err)
	assert.Equal(t, card.ID, stored.ID)

	got, err := svc.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, got.ID)
	assert.Equal(t, card.Name, got.Name)
	assert.Equal(t, card.Number, got.Number)
	assert.Equal(t, card.Expiry, got.Expiry)
	assert.Equal(t, card.CVV, got.CVV)
	assert.Equal(t, card.Categories, got.Categories)
	assert.Equal(t, card.Cashback, got.Cashback)
	assert.Equal(t, card.Perks, got.Perks)
	assert.Nil(t, got.LastUsed)
}

func TestCardService_AddRejectsInvalidAndLeavesStoreUnchanged(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *model.Card)
	}{
		{"empty name", func(c *model.Card) { c.Name = "" }},
		{"12 digit number", func(c *model.Card) { c.Number = "411111111111" }},
		{"month 13 expiry", func(c *model.Card) { c.Expiry = "13/01" }},
		{"5 digit cvv", func(c *model.Card) { c.CVV = "12345" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestCardService()
			ctx := context.Background()

			card := validCard()
			tt.mutate(card)

			_, err := svc.Add(ctx, card)
			assert.ErrorIs(t, err, errors.ErrInvalidCard)

			cards, err := svc.List(ctx, card.AccountID)
			require.NoError(t, err)
			assert.Empty(t, cards)
		})
	}
}

func TestCardService_AddInvalidNeverTouchesRepository(t *testing.T) {
	mockRepo := new(MockCardRepository)
	svc := NewCardService(mockRepo, NewCardValidator(), nil)

	card := validCard()
	card.CVV = "12"

	_, err := svc.Add(context.Background(), card)
	assert.ErrorIs(t, err, errors.ErrInvalidCard)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCardService_UpdateValidatesBeforeLookup(t *testing.T) {
	mockRepo := new(MockCardRepository)
	svc := NewCardService(mockRepo, NewCardValidator(), nil)

	card := validCard()
	card.Expiry = "13/01"

	_, err := svc.Update(context.Background(), card)
	assert.ErrorIs(t, err, errors.ErrInvalidCard)

	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCardService_NotFoundOperations(t *testing.T) {
	svc, _ := newTestCardService()
	ctx := context.Background()
	missing := uuid.New()

	_, err := svc.GetByID(ctx, missing)
	assert.ErrorIs(t, err, errors.ErrCardNotFound)

	_, err = svc.Update(ctx, validCard())
	assert.ErrorIs(t, err, errors.ErrCardNotFound)

	err = svc.Delete(ctx, missing)
	assert.ErrorIs(t, err, errors.ErrCardNotFound)

	_, err = svc.MarkUsed(ctx, missing)
	assert.ErrorIs(t, err, errors.ErrCardNotFound)
}

func TestCardService_UpdateKeepsPosition(t *testing.T) {
	svc, _ := newTestCardService()
	ctx := context.Background()
	accountID := uuid.New()

	names := []string{"First", "Second", "Third"}
	var cards []*model.Card
	for _, name := range names {
		card := validCard()
		card.AccountID = accountID
		card.Name = name
		_, err := svc.Add(ctx, card)
		require.NoError(t, err)
		cards = append(cards, card)
	}

	middle := *cards[1]
	middle.Name = "Second Renamed"
	_, err := svc.Update(ctx, &middle)
	require.NoError(t, err)

	listed, err := svc.List(ctx, accountID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "First", listed[0].Name)
	assert.Equal(t, "Second Renamed", listed[1].Name)
	assert.Equal(t, "Third", listed[2].Name)
}

func TestCardService_MarkUsed(t *testing.T) {
	svc, _ := newTestCardService()
	ctx := context.Background()

	card := validCard()
	_, err := svc.Add(ctx, card)
	require.NoError(t, err)

	first, err := svc.MarkUsed(ctx, card.ID)
	require.NoError(t, err)
	require.NotNil(t, first.LastUsed)

	// Repeated calls never fail and keep LastUsed monotonically
	// non-decreasing.
	second, err := svc.MarkUsed(ctx, card.ID)
	require.NoError(t, err)
	require.NotNil(t, second.LastUsed)
	assert.False(t, second.LastUsed.Before(*first.LastUsed))

	got, err := svc.GetByID(ctx, card.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastUsed)
	assert.Equal(t, second.LastUsed.Unix(), got.LastUsed.Unix())
}

func TestCardService_DeleteRemovesCard(t *testing.T) {
	svc, _ := newTestCardService()
	ctx := context.Background()

	card := validCard()
	_, err := svc.Add(ctx, card)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, card.ID))

	_, err = svc.GetByID(ctx, card.ID)
	assert.ErrorIs(t, err, errors.ErrCardNotFound)

	cards, err := svc.List(ctx, card.AccountID)
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestCardService_ListReturnsSnapshot(t *testing.T) {
	svc, _ := newTestCardService()
	ctx := context.Background()

	card := validCard()
	card.Cashback = map[model.Category]float64{model.CategoryDining: 3}
	_, err := svc.Add(ctx, card)
	require.NoError(t, err)

	listed, err := svc.List(ctx, card.AccountID)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// Mutating the snapshot must not leak into the store.
	listed[0].Name = "Hacked"
	listed[0].Cashback[model.CategoryDining] = 99

	got, err := svc.GetByID(ctx, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.Name, got.Name)
	assert.Equal(t, 3.0, got.Cashback[model.CategoryDining])
}
