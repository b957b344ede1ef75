package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Boylemariotte/PrestamosJuan-sub002/internal/services"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error string      `json:"error"`
	Quote interface{} `json:"quote,omitempty"`
}

// CustomErrorHandler maps domain errors onto HTTP status codes and
// renders a uniform JSON body.
func CustomErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := ErrorResponse{Error: "internal server error"}

		var (
			httpErr  *echo.HTTPError
			validErr *services.ValidationError
			renewErr *services.RenewalRejectedError
		)
		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok && msg != "" {
				body.Error = msg
			} else {
				body.Error = http.StatusText(code)
			}
		case errors.As(err, &validErr):
			code = http.StatusUnprocessableEntity
			body.Error = validErr.Reason
		case errors.As(err, &renewErr):
			// The quote rides along so the caller can show why.
			code = http.StatusUnprocessableEntity
			body.Error = renewErr.Error()
			body.Quote = renewErr.Quote
		case errors.Is(err, services.ErrConflict):
			code = http.StatusConflict
			body.Error = services.ErrConflict.Error()
		case errors.Is(err, gorm.ErrRecordNotFound):
			code = http.StatusNotFound
			body.Error = "resource not found"
		}

		if code >= http.StatusInternalServerError {
			log.WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Request().URL.Path,
			}).WithError(err).Error("Request failed")
		}

		if writeErr := c.JSON(code, body); writeErr != nil {
			log.WithError(writeErr).Error("Failed to write error response")
		}
	}
}
