// middleware/request_id.go
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDContextKey = "requestId"

// RequestID assigns every request a UUID, exposed in the X-Request-ID
// response header and the context for log correlation.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := uuid.NewString()
			c.Set(requestIDContextKey, requestID)
			c.Response().Header().Set("X-Request-ID", requestID)
			return next(c)
		}
	}
}

// GetRequestID returns the id assigned by RequestID, or "" if absent.
func GetRequestID(c echo.Context) string {
	requestID, _ := c.Get(requestIDContextKey).(string)
	return requestID
}
