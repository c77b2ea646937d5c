package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/logger"
	"storefront/internal/ratelimit"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// 注文作成の回数制限。キーはユーザーID＋クライアントIP。
// AuthJWTの後に置くこと。
func OrderCreateRateLimit(limiter *ratelimit.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			key := fmt.Sprintf("orders:create:%d:%s", userID, c.RealIP())
			res, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				//ストア障害時は通す
				logger.FromCtx(c.Request().Context()).Error("rate limit store failed",
					zap.String("key", key), zap.Error(err))
				return next(c)
			}

			if !res.Allowed {
				h := c.Response().Header()
				h.Set(HeaderRateLimitRemaining, strconv.FormatInt(res.Remaining, 10))
				h.Set(HeaderRateLimitReset, strconv.FormatInt(res.ResetAt.Unix(), 10))
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}

			return next(c)
		}
	}
}
