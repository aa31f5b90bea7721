package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardwise/internal/errors"
	"cardwise/internal/model"
)

func validCard() *model.Card {
	return &model.Card{
		ID:             uuid.New(),
		AccountID:      uuid.New(),
		Name:           "Sapphire Dining",
		CardholderName: "Jane Doe",
		Number:         "4111 1111 1111 1111",
		Expiry:         "12/27",
		CVV:            "123",
		Type:           model.CardTypeVisa,
	}
}

func TestCardValidator_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(c *model.Card)
		wantField string
		wantRule  string
	}{
		{
			name:   "valid card",
			mutate: func(c *model.Card) {},
		},
		{
			name:   "13 digits is the minimum",
			mutate: func(c *model.Card) { c.Number = "4111111111111" },
		},
		{
			name:   "19 digits is the maximum",
			mutate: func(c *model.Card) { c.Number = "4111111111111111111" },
		},
		{
			name:   "spaces inside the number are ignored",
			mutate: func(c *model.Card) { c.Number = "5500 0055 5555 5559" },
		},
		{
			name:      "missing id",
			mutate:    func(c *model.Card) { c.ID = uuid.Nil },
			wantField: "id",
			wantRule:  "required",
		},
		{
			name:      "empty name",
			mutate:    func(c *model.Card) { c.Name = "" },
			wantField: "name",
			wantRule:  "required",
		},
		{
			name:      "blank cardholder name",
			mutate:    func(c *model.Card) { c.CardholderName = "   " },
			wantField: "cardholder_name",
			wantRule:  "required",
		},
		{
			name:      "12 digit number",
			mutate:    func(c *model.Card) { c.Number = "411111111111" },
			wantField: "number",
			wantRule:  "format",
		},
		{
			name:      "20 digit number",
			mutate:    func(c *model.Card) { c.Number = "41111111111111111111" },
			wantField: "number",
			wantRule:  "format",
		},
		{
			name:      "number with letters",
			mutate:    func(c *model.Card) { c.Number = "4111abcd11111111" },
			wantField: "number",
			wantRule:  "format",
		},
		{
			name:      "month 13 expiry",
			mutate:    func(c *model.Card) { c.Expiry = "13/01" },
			wantField: "expiry",
			wantRule:  "format",
		},
		{
			name:      "single digit month",
			mutate:    func(c *model.Card) { c.Expiry = "1/27" },
			wantField: "expiry",
			wantRule:  "format",
		},
		{
			name:      "four digit year",
			mutate:    func(c *model.Card) { c.Expiry = "12/2027" },
			wantField: "expiry",
			wantRule:  "format",
		},
		{
			name:      "2 digit cvv",
			mutate:    func(c *model.Card) { c.CVV = "12" },
			wantField: "cvv",
			wantRule:  "format",
		},
		{
			name:      "5 digit cvv",
			mutate:    func(c *model.Card) { c.CVV = "12345" },
			wantField: "cvv",
			wantRule:  "format",
		},
		{
			name:      "unknown card type",
			mutate:    func(c *model.Card) { c.Type = "diners" },
			wantField: "type",
			wantRule:  "enum",
		},
		{
			name:      "unknown declared category",
			mutate:    func(c *model.Card) { c.Categories = []model.Category{"gambling"} },
			wantField: "categories",
			wantRule:  "enum",
		},
		{
			name: "cashback rate above 100",
			mutate: func(c *model.Card) {
				c.Cashback = map[model.Category]float64{model.CategoryDining: 150}
			},
			wantField: "cashback",
			wantRule:  "range",
		},
		{
			name: "negative cashback rate",
			mutate: func(c *model.Card) {
				c.Cashback = map[model.Category]float64{model.CategoryOther: -1}
			},
			wantField: "cashback",
			wantRule:  "range",
		},
		{
			name: "unknown perk category",
			mutate: func(c *model.Card) {
				c.Perks = map[model.Category][]string{"spa": {"free towels"}}
			},
			wantField: "perks",
			wantRule:  "enum",
		},
	}

	v := NewCardValidator()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(card)

			err := v.Validate(card)

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrInvalidCard)

			var verr *errors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, tt.wantRule, verr.Rule)
		})
	}
}

func TestCardValidator_FailsFastInOrder(t *testing.T) {
	v := NewCardValidator()

	// Both the name and the CVV are invalid; required-field checks run before
	// format checks, so the name violation must win.
	card := validCard()
	card.Name = ""
	card.CVV = "12"

	var verr *errors.ValidationError
	err := v.Validate(card)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "name", verr.Field)

	// With the name fixed, the number check precedes the CVV check.
	card.Name = "Fixed"
	card.Number = "123"
	err = v.Validate(card)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "number", verr.Field)
}

func TestCardValidator_MaskNumber(t *testing.T) {
	v := NewCardValidator()

	assert.Equal(t, "****1111", v.MaskNumber("4111 1111 1111 1111"))
	assert.Equal(t, "****0009", v.MaskNumber("340000000000009"))
	assert.Equal(t, "****", v.MaskNumber("12"))
}
