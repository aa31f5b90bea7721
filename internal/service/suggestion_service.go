package service

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"cardwise/internal/model"
)

// Scoring weights. All terms share one unit scale so they compose additively:
// the cashback term dominates ordering and the flat bonuses only break
// near-ties.
const (
	directRateWeight      = 10
	fallbackRateWeight    = 5
	perkBonus             = 5
	declaredCategoryBonus = 3
	recencyBonus          = 1
	recencyWindow         = 7 * 24 * time.Hour
)

// SuggestionService recommends the best card for a transaction. It is a pure
// computation over its inputs: no store access, no side effects, and the only
// time dependence is the injected clock feeding the recency bonus.
type SuggestionService interface {
	Suggest(tx model.Transaction, cards []model.Card) *model.CardSuggestion
}

type suggestionService struct {
	now func() time.Time
}

// NewSuggestionService creates a suggestion service using the wall clock for
// the recency bonus.
func NewSuggestionService() SuggestionService {
	return &suggestionService{now: time.Now}
}

// NewSuggestionServiceWithClock creates a suggestion service with a fixed
// clock, keeping recency-bonus tests deterministic.
func NewSuggestionServiceWithClock(now func() time.Time) SuggestionService {
	return &suggestionService{now: now}
}

// Suggest scores every candidate card against the transaction and returns the
// best match with its rationale, or nil when there are no candidates. The
// sort is stable, so tied cards keep their input order and the first one
// wins.
func (s *suggestionService) Suggest(tx model.Transaction, cards []model.Card) *model.CardSuggestion {
	if len(cards) == 0 {
		return nil
	}

	now := s.now()
	ranked := make([]model.Card, len(cards))
	copy(ranked, cards)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreCard(ranked[i], tx, now) > scoreCard(ranked[j], tx, now)
	})

	best := ranked[0]
	rate, _ := effectiveRate(best, tx.Category)

	suggestion := &model.CardSuggestion{
		Card:   best,
		Reason: buildReason(best, tx.Category, rate),
	}

	if rate > 0 {
		amount := tx.Amount.Mul(decimal.NewFromFloat(rate)).Div(decimal.NewFromInt(100))
		suggestion.CashbackAmount = &amount
	}

	if perks := best.Perks[tx.Category]; len(perks) > 0 {
		suggestion.Perks = make([]string, len(perks))
		copy(suggestion.Perks, perks)
	}

	return suggestion
}

// scoreCard computes the additive score of a single card for a transaction at
// a given instant.
func scoreCard(card model.Card, tx model.Transaction, now time.Time) float64 {
	score := 0.0

	rate, direct := effectiveRate(card, tx.Category)
	if direct {
		score += rate * directRateWeight
	} else {
		score += rate * fallbackRateWeight
	}

	if len(card.Perks[tx.Category]) > 0 {
		score += perkBonus
	}
	if card.HasCategory(tx.Category) {
		score += declaredCategoryBonus
	}
	if card.LastUsed != nil {
		if age := now.Sub(*card.LastUsed); age >= 0 && age < recencyWindow {
			score += recencyBonus
		}
	}

	return score
}

// effectiveRate resolves the cashback rate for a category: the card's own
// rate when present and positive, otherwise the "other" bucket when present,
// otherwise zero. direct reports which lookup won, because a direct match is
// weighted higher than the generic fallback at equal nominal rate.
func effectiveRate(card model.Card, cat model.Category) (rate float64, direct bool) {
	if r, ok := card.Cashback[cat]; ok && r > 0 {
		return r, true
	}
	if r, ok := card.Cashback[model.CategoryOther]; ok {
		return r, false
	}
	return 0, false
}

// buildReason renders the fixed decision table for the rationale string.
func buildReason(card model.Card, cat model.Category, rate float64) string {
	hasPerks := len(card.Perks[cat]) > 0

	switch {
	case rate > 0 && hasPerks:
		return fmt.Sprintf("%s offers %s%% cashback on %s purchases and has additional perks.", card.Name, formatRate(rate), cat)
	case rate > 0:
		return fmt.Sprintf("%s offers %s%% cashback on %s purchases.", card.Name, formatRate(rate), cat)
	case hasPerks:
		return fmt.Sprintf("%s offers special perks for %s purchases.", card.Name, cat)
	default:
		return fmt.Sprintf("%s is the best option for this purchase.", card.Name)
	}
}

// formatRate renders a rate without trailing zeros, so 3.0 prints as "3" and
// 2.5 as "2.5".
func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
