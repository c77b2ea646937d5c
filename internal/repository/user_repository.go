package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
)

// 該当行なしを統一
var ErrNotFound = errors.New("not found")

// 一意制約違反（メール重複など）
var ErrConflict = errors.New("conflict")

// 参照先がない（外部キー違反）
var ErrReferenceMissing = errors.New("reference missing")

// ユーザーの取得（作成は認証基盤側とdevtokenのみ）
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}
