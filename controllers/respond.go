// controllers/respond.go
package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tukprojects/projects_backend/apperrors"
	"github.com/tukprojects/projects_backend/models"
)

// respondError converts a service error into the uniform envelope. This is
// the single place internal error kinds become HTTP statuses.
func respondError(c echo.Context, err error) error {
	status := apperrors.StatusOf(err)
	return c.JSON(status, models.Response{
		Status:  status,
		Message: apperrors.MessageOf(err),
	})
}

func respondOK(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func respondBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, models.Response{
		Status:  http.StatusBadRequest,
		Message: message,
	})
}
