package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/internal/config"
	"storefront/internal/handler"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	"storefront/internal/logger"
	"storefront/internal/ratelimit"
	"storefront/internal/server"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	//.envは任意（本番は環境変数）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.GoEnv)
	defer logger.Sync()
	log := logger.L()

	//金額はJSONで数値として返す
	decimal.MarshalJSONWithoutQuotes = true

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if cfg.AutoMigrate {
		if err := db.Migrate(gormDB); err != nil {
			log.Fatal("db migrate failed", zap.Error(err))
		}
	}

	//注文作成の回数制限（REDIS_ADDRがあれば共有ストア）
	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal("redis ping failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rdb.Close()
		store = ratelimit.NewRedisStore(rdb, "storefront")
	}
	orderLimiter, err := ratelimit.New(store, cfg.OrderRateLimitMax, cfg.OrderRateLimitWindow)
	if err != nil {
		log.Fatal("rate limiter", zap.Error(err))
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	orderValidator := validator.NewOrderValidator()
	ids := usecase.UUIDGenerator{}
	clock := usecase.RealClock{}

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(txManager, userRepo, orderValidator, ids, clock)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, userRepo, orderValidator, ids, clock)

	e := server.New(server.Deps{
		Config:       cfg,
		Users:        userRepo,
		OrderLimiter: orderLimiter,
		Orders:       handler.NewOrderHandler(orderUC),
		AdminOrders:  handler.NewAdminOrderHandler(adminOrderUC),
	})

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, e, addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
