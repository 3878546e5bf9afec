package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"villageboard/internal/auth"
	"villageboard/internal/config"
	"villageboard/internal/handler"
)

// Register wires routes and middleware. Mutating routes require a verified
// JWT; reads and session bootstrap are public.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	memberHandler *handler.MemberHandler,
	announcementHandler *handler.AnnouncementHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	requireJWT := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	})

	// Registration and session bootstrap
	e.POST("/members", authHandler.Register)
	e.POST("/sessions", authHandler.Login)
	e.POST("/sessions/refresh", authHandler.Refresh)
	e.DELETE("/sessions", authHandler.Logout)

	// Member directory
	e.GET("/members", memberHandler.ListMembers)
	e.GET("/members/:id", memberHandler.GetMember)
	e.PUT("/members/:id", memberHandler.UpdateProfile, requireJWT)

	// Announcements
	e.GET("/announcements", announcementHandler.List)
	e.GET("/announcements/owner/:ownerID", announcementHandler.ListByOwner)
	e.POST("/announcements", announcementHandler.Create, requireJWT)
	e.PUT("/announcements/:id", announcementHandler.Update, requireJWT)
	e.DELETE("/announcements/:id", announcementHandler.Delete, requireJWT)

	// Uploaded binaries are served at a static path when the local driver is active.
	if cfg.UploadDriver == "local" {
		e.Static("/uploads", cfg.UploadDir)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
