package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cardwise/internal/auth"
	"cardwise/internal/errors"
	"cardwise/internal/model"
	"cardwise/internal/service"
)

// CardHandler handles card CRUD endpoints.
type CardHandler struct {
	cardService service.CardService
}

// NewCardHandler creates a new card handler.
func NewCardHandler(cardService service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// CardRequest represents a card create/update request.
type CardRequest struct {
	Name           string                            `json:"name"`
	CardholderName string                            `json:"cardholder_name"`
	Number         string                            `json:"number"`
	Expiry         string                            `json:"expiry"`
	CVV            string                            `json:"cvv"`
	Type           model.CardType                    `json:"type"`
	Categories     []model.Category                  `json:"categories"`
	Cashback       map[model.Category]float64        `json:"cashback"`
	Perks          map[model.Category][]string       `json:"perks"`
}

func (r *CardRequest) toCard(id, accountID uuid.UUID) *model.Card {
	return &model.Card{
		ID:             id,
		AccountID:      accountID,
		Name:           r.Name,
		CardholderName: r.CardholderName,
		Number:         r.Number,
		Expiry:         r.Expiry,
		CVV:            r.CVV,
		Type:           r.Type,
		Categories:     r.Categories,
		Cashback:       r.Cashback,
		Perks:          r.Perks,
	}
}

// CardListResponse represents a card list response.
type CardListResponse struct {
	Cards []model.Card `json:"cards"`
	Count int          `json:"count"`
}

// MarkUsedResponse represents the result of marking a card used.
type MarkUsedResponse struct {
	Card     model.Card `json:"card"`
	LastUsed *time.Time `json:"last_used"`
}

// accountIDFromContext extracts the authenticated account ID from the JWT
// middleware's token.
func accountIDFromContext(c echo.Context) (uuid.UUID, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.AccountID == uuid.Nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims.AccountID, nil
}

// cardIDFromPath parses the :id path parameter.
func cardIDFromPath(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid card ID",
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// ownedCard loads a card and verifies it belongs to the account. Foreign
// cards are reported as not found, never as forbidden, so card IDs do not
// leak across accounts.
func (h *CardHandler) ownedCard(c echo.Context, accountID, cardID uuid.UUID) (*model.Card, error) {
	card, err := h.cardService.GetByID(c.Request().Context(), cardID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if card.AccountID != accountID {
		httpErr := errors.MapErrorToHTTP(errors.ErrCardNotFound)
		return nil, echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return card, nil
}

// ListCards godoc
// @Summary List the account's cards
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CardListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cards [get]
func (h *CardHandler) ListCards(c echo.Context) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return err
	}

	cards, err := h.cardService.List(c.Request().Context(), accountID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, CardListResponse{Cards: cards, Count: len(cards)})
}

// GetCard godoc
// @Summary Get a single card
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} model.Card
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id} [get]
func (h *CardHandler) GetCard(c echo.Context) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return err
	}
	cardID, err := cardIDFromPath(c)
	if err != nil {
		return err
	}

	card, err := h.ownedCard(c, accountID, cardID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, card)
}

// CreateCard godoc
// @Summary Add a new card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CardRequest true "Card data"
// @Success 201 {object} model.Card
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /cards [post]
func (h *CardHandler) CreateCard(c echo.Context) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return err
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	card, err := h.cardService.Add(c.Request().Context(), req.toCard(uuid.New(), accountID))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, card)
}

// UpdateCard godoc
// @Summary Update an existing card
// @Tags cards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Param request body CardRequest true "Card data"
// @Success 200 {object} model.Card
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id} [put]
func (h *CardHandler) UpdateCard(c echo.Context) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return err
	}
	cardID, err := cardIDFromPath(c)
	if err != nil {
		return err
	}

	existing, err := h.ownedCard(c, accountID, cardID)
	if err != nil {
		return err
	}

	var req CardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	card := req.toCard(cardID, accountID)
	card.LastUsed = existing.LastUsed // LastUsed only changes through the mark-used endpoint
	updated, err := h.cardService.Update(c.Request().Context(), card)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteCard godoc
// @Summary Delete a card
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 204 "card deleted"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id} [delete]
func (h *CardHandler) DeleteCard(c echo.Context) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return err
	}
	cardID, err := cardIDFromPath(c)
	if err != nil {
		return err
	}

	if _, err := h.ownedCard(c, accountID, cardID); err != nil {
		return err
	}

	if err := h.cardService.Delete(c.Request().Context(), cardID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.NoContent(http.StatusNoContent)
}

// MarkUsed godoc
// @Summary Mark a card as used now
// @Tags cards
// @Produce json
// @Security BearerAuth
// @Param id path string true "Card ID"
// @Success 200 {object} MarkUsedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cards/{id}/used [post]
func (h *CardHandler) MarkUsed(c echo.Context) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return err
	}
	cardID, err := cardIDFromPath(c)
	if err != nil {
		return err
	}

	if _, err := h.ownedCard(c, accountID, cardID); err != nil {
		return err
	}

	card, err := h.cardService.MarkUsed(c.Request().Context(), cardID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, MarkUsedResponse{Card: *card, LastUsed: card.LastUsed})
}
