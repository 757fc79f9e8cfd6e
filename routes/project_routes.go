package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tukprojects/projects_backend/controllers"
	"github.com/tukprojects/projects_backend/middleware"
)

// RegisterProjectRoutes sets up the project and comment routes
func RegisterProjectRoutes(e *echo.Echo, db *mongo.Client, authMiddleware *middleware.AuthMiddleware) {
	projectController := controllers.NewProjectController(db)
	commentController := controllers.NewCommentController(db)

	projects := e.Group("/api/projects")

	// Public browsing routes
	projects.GET("", projectController.GetProjects)
	projects.GET("/:projectId", projectController.GetProject, authMiddleware.OptionalAuth())
	projects.GET("/:projectId/comments", commentController.GetComments)

	// Protected routes (require authentication)
	protected := projects.Group("")
	protected.Use(authMiddleware.RequireAuth())
	protected.POST("", projectController.CreateProject)
	protected.GET("/mine", projectController.GetUserProjects)
	protected.PUT("/:projectId", projectController.UpdateProject)
	protected.DELETE("/:projectId", projectController.DeleteProject)
	protected.POST("/:projectId/like", projectController.AddLike)
	protected.DELETE("/:projectId/like", projectController.RemoveLike)
	protected.POST("/:projectId/comments", commentController.CreateComment)
	protected.DELETE("/:projectId/comments/:commentId", commentController.DeleteComment)
}
