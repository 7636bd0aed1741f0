package loggingmw

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/beanline/coffee-shop/internal/logging"
)

// RequestLogger puts a request-scoped logger into the context and emits
// one line per request. The user id shows up only after RequireLogin has
// resolved it, so it is read after the handler runs.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)

			l := base.With(
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}

			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			status := c.Response().Status

			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
				status = c.Response().Status
			}

			if userID, ok := c.Get("user_id").(uint); ok {
				l = l.With("user_id", userID)
			}

			durMs := time.Since(start).Milliseconds()
			switch {
			case err != nil || status >= 500:
				l.Error("request_completed", "status", status, "duration_ms", durMs, "error", errStr(err))
			case status >= 400:
				l.Warn("request_completed", "status", status, "duration_ms", durMs)
			default:
				l.Info("request_completed", "status", status, "duration_ms", durMs, "bytes", c.Response().Size)
			}
			return nil
		}
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
