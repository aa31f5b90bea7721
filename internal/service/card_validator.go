package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"cardwise/internal/errors"
	"cardwise/internal/model"
)

var (
	numberRegex = regexp.MustCompile(`^\d{13,19}$`)
	expiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRegex    = regexp.MustCompile(`^\d{3,4}$`)
)

// CardValidator checks the structural validity of a card record. The same
// checks run, in the same order, for both add and update so the two paths
// cannot drift. It deliberately performs no Luhn check and no expiry-recency
// check: the wallet stores the user's own cards and is not an authorization
// path.
type CardValidator struct{}

// NewCardValidator creates a new card validator.
func NewCardValidator() *CardValidator {
	return &CardValidator{}
}

// Validate returns nil if card is structurally valid, otherwise a
// *errors.ValidationError naming the first violated rule.
func (v *CardValidator) Validate(card *model.Card) error {
	// Required fields first, failing fast on the first empty one.
	if card.ID == uuid.Nil {
		return errors.NewValidationError("id", "required", "must be set")
	}
	if strings.TrimSpace(card.Name) == "" {
		return errors.NewValidationError("name", "required", "must not be empty")
	}
	if strings.TrimSpace(card.Number) == "" {
		return errors.NewValidationError("number", "required", "must not be empty")
	}
	if strings.TrimSpace(card.Expiry) == "" {
		return errors.NewValidationError("expiry", "required", "must not be empty")
	}
	if strings.TrimSpace(card.CVV) == "" {
		return errors.NewValidationError("cvv", "required", "must not be empty")
	}
	if strings.TrimSpace(card.CardholderName) == "" {
		return errors.NewValidationError("cardholder_name", "required", "must not be empty")
	}

	// Card number: 13-19 digits, embedded whitespace ignored.
	number := strings.Join(strings.Fields(card.Number), "")
	if !numberRegex.MatchString(number) {
		return errors.NewValidationError("number", "format", "must be 13-19 digits")
	}

	// Expiry: MM/YY.
	if !expiryRegex.MatchString(card.Expiry) {
		return errors.NewValidationError("expiry", "format", "must match MM/YY")
	}

	// CVV: 3-4 digits, brand-agnostic.
	if !cvvRegex.MatchString(card.CVV) {
		return errors.NewValidationError("cvv", "format", "must be 3-4 digits")
	}

	if !card.Type.Valid() {
		return errors.NewValidationError("type", "enum", fmt.Sprintf("unknown card type %q", card.Type))
	}
	for _, cat := range card.Categories {
		if !cat.Valid() {
			return errors.NewValidationError("categories", "enum", fmt.Sprintf("unknown category %q", cat))
		}
	}
	for cat, rate := range card.Cashback {
		if !cat.Valid() {
			return errors.NewValidationError("cashback", "enum", fmt.Sprintf("unknown category %q", cat))
		}
		if rate < 0 || rate > 100 {
			return errors.NewValidationError("cashback", "range", fmt.Sprintf("rate for %s must be between 0 and 100", cat))
		}
	}
	for cat := range card.Perks {
		if !cat.Valid() {
			return errors.NewValidationError("perks", "enum", fmt.Sprintf("unknown category %q", cat))
		}
	}

	return nil
}

// MaskNumber masks a card number, showing only the last 4 digits.
func (v *CardValidator) MaskNumber(number string) string {
	number = strings.Join(strings.Fields(number), "")
	if len(number) < 4 {
		return "****"
	}
	return "****" + number[len(number)-4:]
}
