package httperrors

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mernspace/auth-service/internal/logging"
)

type errorBody struct {
	Errors []FieldError `json:"errors"`
}

// NewEchoHandler returns the single boundary that turns every error raised in
// a handler into the uniform {errors:[{type,msg,path,location}]} body.
func NewEchoHandler(base *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		l := logging.FromContext(c.Request().Context())
		if l == slog.Default() {
			l = base
		}

		var status int
		var entries []FieldError
		if he, ok := err.(*echo.HTTPError); ok {
			// echo's own 404/405 responses pass through the same body shape.
			status = he.Code
			entries = []FieldError{{Type: http.StatusText(he.Code), Msg: fmt.Sprint(he.Message)}}
		} else {
			appErr := As(err)
			status = appErr.Status()
			entries = appErr.Entries()
		}

		if status >= http.StatusInternalServerError {
			l.Error("request failed", "status", status, "error", err)
		} else {
			l.Warn("request rejected", "status", status, "error", err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorBody{Errors: entries})
	}
}
