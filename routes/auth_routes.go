package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/tukprojects/projects_backend/controllers"
	"github.com/tukprojects/projects_backend/middleware"
)

// RegisterAuthRoutes sets up the authentication and account routes
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController, userController *controllers.UserController, authMiddleware *middleware.AuthMiddleware) {
	// Public authentication routes
	e.POST("/api/auth/register", authController.Register)
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/refreshtoken", authController.RefreshToken)
	e.POST("/api/auth/sendphonecode", authController.SendPhoneCode)
	e.POST("/api/auth/recoverpassword", authController.RecoverPassword)

	// Public profile lookup
	e.GET("/api/users/:userId", userController.GetPublicProfile)

	// Account routes (require authentication)
	users := e.Group("/api/users")
	users.Use(authMiddleware.RequireAuth())
	users.GET("/profile", userController.GetProfile)
	users.PUT("/profile", userController.UpdateProfile)
	users.POST("/changepassword", userController.ChangePassword)
}
