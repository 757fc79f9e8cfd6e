// controllers/project_controller.go
package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tukprojects/projects_backend/apperrors"
	"github.com/tukprojects/projects_backend/config"
	"github.com/tukprojects/projects_backend/middleware"
	"github.com/tukprojects/projects_backend/models"
)

// ProjectController handles the project CRUD and like plumbing.
type ProjectController struct {
	DB *mongo.Client
}

func NewProjectController(db *mongo.Client) *ProjectController {
	return &ProjectController{DB: db}
}

// CreateProject publishes (or drafts) a project owned by the caller.
func (pc *ProjectController) CreateProject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)

	var req models.ProjectRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	now := time.Now()
	project := models.Project{
		Title: req.Title,
		Owner: models.Owner{
			ID:              account.ID.Hex(),
			Name:            account.FullName(),
			ProfileImageURL: account.ProfileImageURL,
		},
		Likes:              []string{},
		Status:             req.Status,
		Category:           req.Category,
		ContactPhoneNumber: req.ContactPhoneNumber,
		ContactEmail:       req.ContactEmail,
		Attachments:        req.Attachments,
		Link:               req.Link,
		Summary:            req.Summary,
		Description:        req.Description,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	collection := config.GetCollection(pc.DB, "projects")
	result, err := collection.InsertOne(ctx, project)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create project",
		})
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		project.ID = id
	}

	return respondOK(c, "Project created successfully", project)
}

// GetProjects lists published projects, newest first, paginated.
func (pc *ProjectController) GetProjects(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	page, perPage := paginationParams(c)

	filter := bson.M{"status": models.ProjectStatusPublished}
	if category := c.QueryParam("category"); category != "" {
		filter["category"] = category
	}

	collection := config.GetCollection(pc.DB, "projects")

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count projects",
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
			Message: "Failed to fetch projects",
		})
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode projects",
		})
	}

	return respondOK(c, "Projects fetched successfully", map[string]interface{}{
		"count":    count,
		"projects": projects,
	})
}

// GetProject returns a single project. Drafts are only visible to their
// owner, so the route sits behind optional authentication.
func (pc *ProjectController) GetProject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	project, err := pc.findProject(ctx, c.Param("projectId"))
	if err != nil {
		return respondError(c, err)
	}
	if project == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "The project could not be found",
		})
	}

	if project.Status == models.ProjectStatusDraft {
		account := middleware.CurrentAccount(c)
		if account == nil || account.ID.Hex() != project.Owner.ID {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "The project could not be found",
			})
		}
	}

	return respondOK(c, "Project fetched successfully", project)
}

// GetUserProjects lists the caller's own projects, drafts included.
func (pc *ProjectController) GetUserProjects(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)
	page, perPage := paginationParams(c)

	filter := bson.M{"owner.id": account.ID.Hex()}

	collection := config.GetCollection(pc.DB, "projects")

	count, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to count projects",
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
			Message: "Failed to fetch projects",
		})
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode projects",
		})
	}

	return respondOK(c, "Projects fetched successfully", map[string]interface{}{
		"count":    count,
		"projects": projects,
	})
}

// UpdateProject replaces the mutable fields of a project the caller owns.
func (pc *ProjectController) UpdateProject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)

	project, err := pc.findProject(ctx, c.Param("projectId"))
	if err != nil {
		return respondError(c, err)
	}
	if project == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "The project could not be found",
		})
	}

	if project.Owner.ID != account.ID.Hex() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You do not have the permission to perform the action you requested",
		})
	}

	var req models.ProjectRequest
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	collection := config.GetCollection(pc.DB, "projects")
	update := bson.M{"$set": bson.M{
		"title":              req.Title,
		"status":             req.Status,
		"category":           req.Category,
		"contactPhoneNumber": req.ContactPhoneNumber,
		"contactEmail":       req.ContactEmail,
		"attachments":        req.Attachments,
		"link":               req.Link,
		"summary":            req.Summary,
		"description":        req.Description,
		"updatedAt":          time.Now(),
	}}

	_, err = collection.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update project",
		})
	}

	return respondOK(c, "Project updated successfully", nil)
}

// DeleteProject removes a project the caller owns. Deleting a project that
// is already gone reports success.
func (pc *ProjectController) DeleteProject(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)

	project, err := pc.findProject(ctx, c.Param("projectId"))
	if err != nil {
		return respondError(c, err)
	}
	if project == nil {
		return respondOK(c, "Project deleted successfully", nil)
	}

	if project.Owner.ID != account.ID.Hex() {
		return c.JSON(http.StatusForbidden, models.Response{
			Status:  http.StatusForbidden,
			Message: "You do not have the permission to perform the action you requested",
		})
	}

	collection := config.GetCollection(pc.DB, "projects")
	_, err = collection.DeleteOne(ctx, bson.M{"_id": project.ID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete project",
		})
	}

	// Remove the project's comments as well
	commentColl := config.GetCollection(pc.DB, "comments")
	if _, err := commentColl.DeleteMany(ctx, bson.M{"projectId": project.ID.Hex()}); err != nil {
		c.Logger().Warnf("failed to delete comments for project %s: %v", project.ID.Hex(), err)
	}

	return respondOK(c, "Project deleted successfully", nil)
}

// AddLike records the caller's like. Liking twice is a no-op.
func (pc *ProjectController) AddLike(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)

	project, err := pc.findProject(ctx, c.Param("projectId"))
	if err != nil {
		return respondError(c, err)
	}
	if project == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "The project you are trying to like could not be found",
		})
	}

	accountID := account.ID.Hex()
	for _, liker := range project.Likes {
		if liker == accountID {
			return respondOK(c, "Project liked", map[string]interface{}{
				"noOfLikes": project.NoOfLikes,
			})
		}
	}

	collection := config.GetCollection(pc.DB, "projects")
	update := bson.M{
		"$addToSet": bson.M{"likes": accountID},
		"$inc":      bson.M{"noOfLikes": 1},
	}
	_, err = collection.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to like project",
		})
	}

	return respondOK(c, "Project liked", map[string]interface{}{
		"noOfLikes": project.NoOfLikes + 1,
	})
}

// RemoveLike withdraws the caller's like. Unliking twice is a no-op.
func (pc *ProjectController) RemoveLike(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	account := middleware.CurrentAccount(c)

	project, err := pc.findProject(ctx, c.Param("projectId"))
	if err != nil {
		return respondError(c, err)
	}
	if project == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "The project could not be found",
		})
	}

	accountID := account.ID.Hex()
	liked := false
	for _, liker := range project.Likes {
		if liker == accountID {
			liked = true
			break
		}
	}
	if !liked {
		return respondOK(c, "Project unliked", map[string]interface{}{
			"noOfLikes": project.NoOfLikes,
		})
	}

	collection := config.GetCollection(pc.DB, "projects")
	update := bson.M{
		"$pull": bson.M{"likes": accountID},
		"$inc":  bson.M{"noOfLikes": -1},
	}
	_, err = collection.UpdateOne(ctx, bson.M{"_id": project.ID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to unlike project",
		})
	}

	return respondOK(c, "Project unliked", map[string]interface{}{
		"noOfLikes": project.NoOfLikes - 1,
	})
}

// findProject resolves a path id into a project, (nil, nil) when absent.
func (pc *ProjectController) findProject(ctx context.Context, rawID string) (*models.Project, error) {
	projectID, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInvalidInput, "Invalid project id")
	}

	collection := config.GetCollection(pc.DB, "projects")

	var project models.Project
	err = collection.FindOne(ctx, bson.M{"_id": projectID}).Decode(&project)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func paginationParams(c echo.Context) (page, perPage int) {
	page = 1
	perPage = 20

	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if pp, err := strconv.Atoi(c.QueryParam("perPage")); err == nil && pp > 0 && pp <= 100 {
		perPage = pp
	}
	return page, perPage
}
