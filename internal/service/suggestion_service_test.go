package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardwise/internal/model"
)

func fixedClock() (func() time.Time, time.Time) {
	now := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }, now
}

func suggestionCard(name string) model.Card {
	return model.Card{
		ID:             uuid.New(),
		Name:           name,
		CardholderName: "Jane Doe",
		Number:         "4111111111111111",
		Expiry:         "12/27",
		CVV:            "123",
		Type:           model.CardTypeVisa,
	}
}

func diningTx(amount int64) model.Transaction {
	return model.Transaction{
		Category: model.CategoryDining,
		Amount:   decimal.NewFromInt(amount),
	}
}

func TestSuggest_EmptyCandidatesYieldNoSuggestion(t *testing.T) {
	clock, _ := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	assert.Nil(t, svc.Suggest(diningTx(100), nil))
	assert.Nil(t, svc.Suggest(diningTx(100), []model.Card{}))
}

func TestSuggest_DirectRateBeatsFallbackRate(t *testing.T) {
	clock, _ := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	cardA := suggestionCard("A")
	cardA.Cashback = map[model.Category]float64{model.CategoryDining: 3}

	cardB := suggestionCard("B")
	cardB.Cashback = map[model.Category]float64{
		model.CategoryDining: 0,
		model.CategoryOther:  1,
	}

	// A scores 3*10=30, B falls back to other and scores 1*5=5.
	got := svc.Suggest(diningTx(100), []model.Card{cardA, cardB})
	require.NotNil(t, got)
	assert.Equal(t, "A", got.Card.Name)
	assert.Equal(t, "A offers 3% cashback on dining purchases.", got.Reason)
	require.NotNil(t, got.CashbackAmount)
	assert.True(t, got.CashbackAmount.Equal(decimal.NewFromInt(3)),
		"cashback amount = %s, want 3", got.CashbackAmount)
	assert.Nil(t, got.Perks)
}

func TestSuggest_FallbackRateUsedInReasonAndAmount(t *testing.T) {
	clock, _ := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	card := suggestionCard("B")
	card.Cashback = map[model.Category]float64{
		model.CategoryDining: 0,
		model.CategoryOther:  1,
	}

	got := svc.Suggest(diningTx(200), []model.Card{card})
	require.NotNil(t, got)
	assert.Equal(t, "B offers 1% cashback on dining purchases.", got.Reason)
	require.NotNil(t, got.CashbackAmount)
	assert.True(t, got.CashbackAmount.Equal(decimal.NewFromInt(2)))
}

func TestSuggest_HigherFallbackCannotOutrankDirectAtSameScale(t *testing.T) {
	clock, _ := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	direct := suggestionCard("Direct")
	direct.Cashback = map[model.Category]float64{model.CategoryDining: 2}

	fallback := suggestionCard("Fallback")
	fallback.Cashback = map[model.Category]float64{model.CategoryOther: 3}

	// 2*10=20 beats 3*5=15: a direct category match is preferred over the
	// generic bucket even at a lower nominal rate.
	got := svc.Suggest(diningTx(50), []model.Card{fallback, direct})
	require.NotNil(t, got)
	assert.Equal(t, "Direct", got.Card.Name)
}

func TestSuggest_ReasonDecisionTable(t *testing.T) {
	clock, _ := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	tests := []struct {
		name       string
		mutate     func(c *model.Card)
		wantReason string
	}{
		{
			name: "rate and perks",
			mutate: func(c *model.Card) {
				c.Cashback = map[model.Category]float64{model.CategoryDining: 2.5}
				c.Perks = map[model.Category][]string{model.CategoryDining: {"Free dessert"}}
			},
			wantReason: "X offers 2.5% cashback on dining purchases and has additional perks.",
		},
		{
			name: "rate only",
			mutate: func(c *model.Card) {
				c.Cashback = map[model.Category]float64{model.CategoryDining: 2.5}
			},
			wantReason: "X offers 2.5% cashback on dining purchases.",
		},
		{
			name: "perks only",
			mutate: func(c *model.Card) {
				c.Perks = map[model.Category][]string{model.CategoryDining: {"Free dessert"}}
			},
			wantReason: "X offers special perks for dining purchases.",
		},
		{
			name:       "no differentiator",
			mutate:     func(c *model.Card) {},
			wantReason: "X is the best option for this purchase.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := suggestionCard("X")
			tt.mutate(&card)

			got := svc.Suggest(diningTx(100), []model.Card{card})
			require.NotNil(t, got)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestSuggest_BareCardStillSuggested(t *testing.T) {
	clock, _ := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	card := suggestionCard("Plain")

	got := svc.Suggest(diningTx(100), []model.Card{card})
	require.NotNil(t, got)
	assert.Equal(t, "Plain", got.Card.Name)
	assert.Equal(t, "Plain is the best option for this purchase.", got.Reason)
	assert.Nil(t, got.CashbackAmount)
	assert.Nil(t, got.Perks)
}

func TestSuggest_TieKeepsInputOrder(t *testing.T) {
	clock, _ := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	cardA := suggestionCard("First")
	cardA.Cashback = map[model.Category]float64{model.CategoryDining: 2}
	cardB := suggestionCard("Second")
	cardB.Cashback = map[model.Category]float64{model.CategoryDining: 2}

	got := svc.Suggest(diningTx(100), []model.Card{cardA, cardB})
	require.NotNil(t, got)
	assert.Equal(t, "First", got.Card.Name)

	// Swapping the input order swaps the winner.
	got = svc.Suggest(diningTx(100), []model.Card{cardB, cardA})
	require.NotNil(t, got)
	assert.Equal(t, "Second", got.Card.Name)
}

func TestSuggest_BonusesBreakTies(t *testing.T) {
	clock, now := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	tests := []struct {
		name   string
		mutate func(c *model.Card)
		wins   bool
	}{
		{
			name: "declared category bonus",
			mutate: func(c *model.Card) {
				c.Categories = []model.Category{model.CategoryDining}
			},
			wins: true,
		},
		{
			name: "perk bonus",
			mutate: func(c *model.Card) {
				c.Perks = map[model.Category][]string{model.CategoryDining: {"Free dessert"}}
			},
			wins: true,
		},
		{
			name: "recent use bonus",
			mutate: func(c *model.Card) {
				lastUsed := now.Add(-2 * 24 * time.Hour)
				c.LastUsed = &lastUsed
			},
			wins: true,
		},
		{
			name: "use outside the 7 day window earns nothing",
			mutate: func(c *model.Card) {
				lastUsed := now.Add(-8 * 24 * time.Hour)
				c.LastUsed = &lastUsed
			},
			wins: false,
		},
		{
			name: "empty perk list earns nothing",
			mutate: func(c *model.Card) {
				c.Perks = map[model.Category][]string{model.CategoryDining: {}}
			},
			wins: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			baseline := suggestionCard("Baseline")
			baseline.Cashback = map[model.Category]float64{model.CategoryDining: 2}

			boosted := suggestionCard("Boosted")
			boosted.Cashback = map[model.Category]float64{model.CategoryDining: 2}
			tt.mutate(&boosted)

			// Baseline comes first, so on a true tie it wins by stability.
			got := svc.Suggest(diningTx(100), []model.Card{baseline, boosted})
			require.NotNil(t, got)
			if tt.wins {
				assert.Equal(t, "Boosted", got.Card.Name)
			} else {
				assert.Equal(t, "Baseline", got.Card.Name)
			}
		})
	}
}

func TestSuggest_Deterministic(t *testing.T) {
	clock, now := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	lastUsed := now.Add(-24 * time.Hour)
	cardA := suggestionCard("A")
	cardA.Cashback = map[model.Category]float64{model.CategoryDining: 1.5}
	cardA.LastUsed = &lastUsed
	cardB := suggestionCard("B")
	cardB.Cashback = map[model.Category]float64{model.CategoryOther: 2}
	cardB.Perks = map[model.Category][]string{model.CategoryDining: {"Priority seating"}}

	cards := []model.Card{cardA, cardB}
	tx := diningTx(80)

	first := svc.Suggest(tx, cards)
	require.NotNil(t, first)
	for i := 0; i < 10; i++ {
		again := svc.Suggest(tx, cards)
		require.NotNil(t, again)
		assert.Equal(t, first.Card.ID, again.Card.ID)
		assert.Equal(t, first.Reason, again.Reason)
	}
}

func TestSuggest_PerksAreCopied(t *testing.T) {
	clock, _ := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	card := suggestionCard("Perky")
	card.Perks = map[model.Category][]string{model.CategoryDining: {"Free dessert", "Priority seating"}}

	got := svc.Suggest(diningTx(100), []model.Card{card})
	require.NotNil(t, got)
	require.Equal(t, []string{"Free dessert", "Priority seating"}, got.Perks)

	// The result owns its perk list; mutating it must not reach the card.
	got.Perks[0] = "changed"
	assert.Equal(t, "Free dessert", card.Perks[model.CategoryDining][0])
}

func TestSuggest_InputOrderIsPreserved(t *testing.T) {
	clock, _ := fixedClock()
	svc := NewSuggestionServiceWithClock(clock)

	cardA := suggestionCard("Low")
	cardB := suggestionCard("High")
	cardB.Cashback = map[model.Category]float64{model.CategoryDining: 5}

	cards := []model.Card{cardA, cardB}
	got := svc.Suggest(diningTx(100), cards)
	require.NotNil(t, got)
	assert.Equal(t, "High", got.Card.Name)

	// Ranking works on a copy; the caller's slice keeps its order.
	assert.Equal(t, "Low", cards[0].Name)
	assert.Equal(t, "High", cards[1].Name)
}
