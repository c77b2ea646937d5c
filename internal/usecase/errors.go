package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/logger"

	"go.uber.org/zap"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// DB障害は詳細をログに出して、呼び出し側には500だけ返す
func internalError(ctx context.Context, op string, err error) error {
	logger.FromCtx(ctx).Error("persistence failure", zap.String("op", op), zap.Error(err))
	return NewHTTPError(http.StatusInternalServerError, "internal error")
}

// Tx内で作ったHTTPErrorはそのまま、それ以外は500
func passOrInternal(ctx context.Context, op string, err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	return internalError(ctx, op, err)
}
