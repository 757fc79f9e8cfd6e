package main

import (
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/tukprojects/projects_backend/config"
	"github.com/tukprojects/projects_backend/controllers"
	"github.com/tukprojects/projects_backend/middleware"
	"github.com/tukprojects/projects_backend/repositories"
	"github.com/tukprojects/projects_backend/routes"
	"github.com/tukprojects/projects_backend/services/auth"
	"github.com/tukprojects/projects_backend/utils"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.Load()

	// Connect to Redis
	config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	// Create a new Echo instance
	e := echo.New()

	// Initialize custom validator
	customValidator := &CustomValidator{validator: validator.New()}
	e.Validator = customValidator

	// Initialize rate limiter
	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.RequestID())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "TUK Projects Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Initialize repositories and services
	accountRepo := repositories.NewAccountRepository(client)

	tokenService := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:             cfg.JWTAccessSecret,
		RefreshSecret:            cfg.JWTRefreshSecret,
		AccessTokenLifetime:      cfg.AccessTokenLifetime,
		RefreshTokenLifetime:     cfg.RefreshTokenLifetime,
		VerificationCodeLifetime: cfg.PhoneVerificationCodeLifetime,
	}, time.Now)

	authValidator := auth.NewValidator(accountRepo)

	sessionManager := auth.NewSessionManager(accountRepo, tokenService, authValidator, cfg.MustVerifyPhoneNumber, time.Now, logger)

	smsService := utils.NewSMSService(cfg)
	verificationFlow := auth.NewVerificationFlow(accountRepo, tokenService, authValidator, smsService, cfg.PhoneVerificationCodeLifetime, time.Now, logger)

	// Initialize controllers
	authController := controllers.NewAuthController(sessionManager, verificationFlow, config.GetRedisClient())
	userController := controllers.NewUserController(accountRepo, logger)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, accountRepo)

	// Register routes
	routes.RegisterAuthRoutes(e, authController, userController, authMiddleware)
	routes.RegisterProjectRoutes(e, client, authMiddleware)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
