// controllers/comment_controller.go
package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tukprojects/projects_backend/config"
	"github.com/tukprojects/projects_backend/middleware"
	"github.com/tukprojects/projects_backend/models"
)

// CommentController handles the comment plumbing for projects.
type CommentController struct {
	DB *mongo.Client
}

func NewCommentController(db *mongo.Client) *CommentController {
	return &CommentController{DB: db}
}

// GetComments lists a project's comments, newest first, paginated.
func (cc *CommentController) GetComments(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	projectID := c.Param("projectId")
	if _, err := primitive.ObjectIDFromHex(projectID); err != nil {
		return respondBadRequest(c, "Invalid project id")
	}

	page, perPage := paginationParams(c)

	collection := config.GetCollection(cc.DB, "comments")
	filter := bson.M{"projectId": projectID}

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count comments",
		})
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(perPage * (page - 1))).
		SetLimit(int64(perPage))

	cursor, err := collection.Find(ctx, filter, findOptions)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch comments",
		})
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode comments",
		})
	}

	return respondOK(c, "Comments fetched successfully", map[string]interface{}{
		"count":    count,
		"comments": comments,
	})
}

// CreateComment adds a comment by the caller and bumps the project's
// comment counter.
func (cc *CommentController) CreateComment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)

	projectID, err := primitive.ObjectIDFromHex(c.Param("projectId"))
	if err != nil {
		return respondBadRequest(c, "Invalid project id")
	}

	var req models.CommentRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	projectColl := config.GetCollection(cc.DB, "projects")

	var project models.Project
	err = projectColl.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "The project you are trying to comment on could not be found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch project",
		})
	}

	comment := models.Comment{
		Commenter: models.Commenter{
			ID:              account.ID.Hex(),
			Name:            account.FullName(),
			ProfileImageURL: account.ProfileImageURL,
		},
		ProjectID: projectID.Hex(),
		Message:   req.Message,
		CreatedAt: time.Now(),
	}

	commentColl := config.GetCollection(cc.DB, "comments")
	result, err := commentColl.InsertOne(ctx, comment)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create comment",
		})
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		comment.ID = id
	}

	if _, err := projectColl.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$inc": bson.M{"noOfComments": 1}}); err != nil {
		c.Logger().Warnf("failed to bump comment count for project %s: %v", projectID.Hex(), err)
	}

	return respondOK(c, "Comment created successfully", comment)
}

// DeleteComment removes a comment the caller wrote and drops the project's
// comment counter.
func (cc *CommentController) DeleteComment(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)

	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return respondBadRequest(c, "Invalid comment id")
	}

	collection := config.GetCollection(cc.DB, "comments")

	var comment models.Comment
	err = collection.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "The comment could not be found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch comment",
		})
	}

	if comment.Commenter.ID != account.ID.Hex() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You do not have the permission to perform the action you requested",
		})
	}

	if _, err := collection.DeleteOne(ctx, bson.M{"_id": commentID}); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete comment",
		})
	}

	if projectID, err := primitive.ObjectIDFromHex(comment.ProjectID); err == nil {
		projectColl := config.GetCollection(cc.DB, "projects")
		if _, err := projectColl.UpdateOne(ctx, bson.M{"_id": projectID}, bson.M{"$inc": bson.M{"noOfComments": -1}}); err != nil {
			c.Logger().Warnf("failed to drop comment count for project %s: %v", comment.ProjectID, err)
		}
	}

	return respondOK(c, "Comment deleted successfully", nil)
}
