package middleware

import (
	"context"
	"net/http"

	applogger "DemandCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit rejects requests with a 429 HTTPError once the client's budget is
// spent. Clients are keyed by c.RealIP(), so the server's IPExtractor decides
// which address counts. Limiter errors fail open.
func RateLimit(lim Limiter, l *applogger.Logger) echo.MiddlewareFunc {
	if l == nil {
		l = applogger.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := lim.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				l.Warn("rate limiter unavailable", applogger.Error(err))
				return next(c)
			}
			if !ok {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, slow down.")
			}
			return next(c)
		}
	}
}
