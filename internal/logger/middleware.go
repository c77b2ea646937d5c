package logger

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const HeaderRequestID = "X-Request-ID"

// X-Request-IDを引き継ぐ（なければ発行）
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqID := req.Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.SetRequest(req.WithContext(WithRequestID(req.Context(), reqID)))
			c.Response().Header().Set(HeaderRequestID, reqID)

			return next(c)
		}
	}
}

// 1リクエスト1行のアクセスログ
func AccessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				//ステータスを確定させる
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.String("ip", c.RealIP()),
				zap.Duration("latency", time.Since(start)),
			}
			if uid, ok := c.Get("user_id").(int64); ok {
				fields = append(fields, zap.Int64("user_id", uid))
			}

			FromCtx(c.Request().Context()).Info("http request", fields...)
			return nil
		}
	}
}
