package handler

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cardwise/internal/model"
	"cardwise/internal/service"
)

// SeedHandler creates demo cards so a fresh account has something to get
// suggestions for.
type SeedHandler struct {
	cardService service.CardService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(cardService service.CardService) *SeedHandler {
	return &SeedHandler{cardService: cardService}
}

// SeedCardsResponse represents the seed response.
type SeedCardsResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// DemoCards returns a representative demo wallet. Every card goes through the
// normal add path, validation included. The seed command reuses the same
// deck.
func DemoCards(accountID uuid.UUID) []*model.Card {
	return []*model.Card{
		{
			ID:             uuid.New(),
			AccountID:      accountID,
			Name:           "Sapphire Dining",
			CardholderName: "Demo User",
			Number:         "4111 1111 1111 1111",
			Expiry:         "12/27",
			CVV:            "123",
			Type:           model.CardTypeVisa,
			Categories:     []model.Category{model.CategoryDining, model.CategoryTravel},
			Cashback: map[model.Category]float64{
				model.CategoryDining: 3,
				model.CategoryTravel: 2,
				model.CategoryOther:  1,
			},
			Perks: map[model.Category][]string{
				model.CategoryTravel: {"Airport lounge access", "No foreign transaction fees"},
			},
		},
		{
			ID:             uuid.New(),
			AccountID:      accountID,
			Name:           "Everyday Cash",
			CardholderName: "Demo User",
			Number:         "5500005555555559",
			Expiry:         "06/28",
			CVV:            "321",
			Type:           model.CardTypeMastercard,
			Categories:     []model.Category{model.CategoryGroceries},
			Cashback: map[model.Category]float64{
				model.CategoryGroceries: 2,
				model.CategoryOther:     1.5,
			},
		},
		{
			ID:             uuid.New(),
			AccountID:      accountID,
			Name:           "Platinum Perks",
			CardholderName: "Demo User",
			Number:         "340000000000009",
			Expiry:         "09/26",
			CVV:            "1234",
			Type:           model.CardTypeAmex,
			Categories:     []model.Category{model.CategoryEntertainment},
			Perks: map[model.Category][]string{
				model.CategoryEntertainment: {"Presale ticket access"},
				model.CategoryDining:        {"Complimentary dessert at partner restaurants"},
			},
		},
	}
}

// SeedCards godoc
// @Summary Seed demo cards for the authenticated account
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SeedCardsResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} map[string]string
// @Router /seed/cards [get]
func (h *SeedHandler) SeedCards(c echo.Context) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return err
	}

	count := 0
	for _, card := range DemoCards(accountID) {
		if _, err := h.cardService.Add(c.Request().Context(), card); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
				"error": fmt.Sprintf("failed to seed card %q: %v", card.Name, err),
			})
		}
		count++
	}

	return c.JSON(http.StatusOK, SeedCardsResponse{
		Message: "Demo cards seeded successfully",
		Count:   count,
	})
}
