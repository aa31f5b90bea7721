package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"cardwise/internal/auth"
	"cardwise/internal/config"
	"cardwise/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	cardHandler *handler.CardHandler,
	suggestionHandler *handler.SuggestionHandler,
	seedHandler *handler.SeedHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/me", func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}
		claims, ok := token.Claims.(*auth.Claims)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"account_id": claims.AccountID,
			"email":      claims.Email,
		})
	})

	// Card vault routes
	secured.GET("/cards", cardHandler.ListCards)
	secured.POST("/cards", cardHandler.CreateCard)
	secured.GET("/cards/:id", cardHandler.GetCard)
	secured.PUT("/cards/:id", cardHandler.UpdateCard)
	secured.DELETE("/cards/:id", cardHandler.DeleteCard)
	secured.POST("/cards/:id/used", cardHandler.MarkUsed)

	// Suggestion routes
	secured.POST("/suggestions", suggestionHandler.Suggest)

	// Demo data
	secured.GET("/seed/cards", seedHandler.SeedCards)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
