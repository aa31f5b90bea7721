package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"cardwise/internal/errors"
	"cardwise/internal/model"
	"cardwise/internal/service"
)

// SuggestionHandler handles card recommendation endpoints.
type SuggestionHandler struct {
	cardService       service.CardService
	suggestionService service.SuggestionService
}

// NewSuggestionHandler creates a new suggestion handler.
func NewSuggestionHandler(cardService service.CardService, suggestionService service.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{
		cardService:       cardService,
		suggestionService: suggestionService,
	}
}

// SuggestRequest describes the purchase to recommend a card for.
type SuggestRequest struct {
	Category    model.Category  `json:"category" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Date        *time.Time      `json:"date,omitempty"`
	Description string          `json:"description,omitempty"`
}

// SuggestResponse wraps the recommendation. Suggestion is null when the
// account has no cards; that is a valid outcome, not an error.
type SuggestResponse struct {
	Suggestion *model.CardSuggestion `json:"suggestion"`
}

// Suggest godoc
// @Summary Recommend the best card for a purchase
// @Tags suggestions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SuggestRequest true "Transaction data"
// @Success 200 {object} SuggestResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /suggestions [post]
func (h *SuggestionHandler) Suggest(c echo.Context) error {
	accountID, err := accountIDFromContext(c)
	if err != nil {
		return err
	}

	var req SuggestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !req.Category.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "unknown transaction category",
			Code:  "INVALID_CATEGORY",
		})
	}
	if !req.Amount.IsPositive() {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "amount must be positive",
			Code:  "INVALID_AMOUNT",
		})
	}

	cards, err := h.cardService.List(c.Request().Context(), accountID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	tx := model.Transaction{
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
	}

	return c.JSON(http.StatusOK, SuggestResponse{
		Suggestion: h.suggestionService.Suggest(tx, cards),
	})
}
