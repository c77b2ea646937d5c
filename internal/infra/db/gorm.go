package db

import (
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
func Connect(cfg config.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), Options(cfg.IsProduction()))
}

// Options はgormの共通設定（テストのsqlmockでも同じものを使う）
func Options(production bool) *gorm.Config {
	level := logger.Info
	if production {
		level = logger.Warn
	}
	return &gorm.Config{
		//明示したTx以外では張らない
		SkipDefaultTransaction: true,
		//注文⇔住所が循環するので外部キーは作らない（削除はrepositoryで明示）
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Migrate は注文まわりのテーブルを作る
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Order{},
		&model.ShippingAddress{},
		&model.OrderItem{},
		&model.AuditLog{},
	)
}
