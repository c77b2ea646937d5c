package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	DatabaseURL      string // あれば最優先
	PostgresUser     string // DBユーザー
	PostgresPassword string // DBパスワード
	PostgresDB       string // DB名
	PostgresHost     string // DBホスト（localhost）
	PostgresPort     int    // DBポート（5432）
	PostgresSSLMode  string
	AutoMigrate      bool

	JWTSecret string // JWT署名シークレット

	GoEnv string // dev/prod
	FEURL string // フロントURL（CORS）

	// 空ならプロセス内カウンタ
	RedisAddr string

	OrderRateLimitMax    int64
	OrderRateLimitWindow time.Duration
	GlobalRateLimitRPS   float64

	// X-Forwarded-Forを信じてよいプロキシのCIDR。空ならRemoteAddrだけを見る
	TrustedProxies []*net.IPNet
}

// 本番か
func (c Config) IsProduction() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}

// Loadは環境変数
func Load() (Config, error) {
	pgPort, err := atoiOr("POSTGRES_PORT", 5432)
	if err != nil {
		return Config{}, err
	}
	autoMigrate, err := boolOr("AUTO_MIGRATE", true)
	if err != nil {
		return Config{}, err
	}
	rlMax, err := atoiOr("ORDER_RATE_LIMIT_MAX", 3)
	if err != nil {
		return Config{}, err
	}
	rlWindow, err := durationOr("ORDER_RATE_LIMIT_WINDOW", time.Minute)
	if err != nil {
		return Config{}, err
	}
	globalRPS, err := floatOr("GLOBAL_RATE_LIMIT_RPS", 20)
	if err != nil {
		return Config{}, err
	}
	proxies, err := cidrList("TRUSTED_PROXIES")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: getenv("PORT", "8080"),

		DatabaseURL:      os.Getenv("DATABASE_URL"),
		PostgresUser:     getenv("POSTGRES_USER", "postgres"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       getenv("POSTGRES_DB", "app"),
		PostgresHost:     getenv("POSTGRES_HOST", "localhost"),
		PostgresPort:     pgPort,
		PostgresSSLMode:  getenv("POSTGRES_SSLMODE", "disable"),
		AutoMigrate:      autoMigrate,

		JWTSecret: os.Getenv("JWT_SECRET"),

		GoEnv: getenv("GO_ENV", "dev"),
		FEURL: os.Getenv("FE_URL"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		OrderRateLimitMax:    int64(rlMax),
		OrderRateLimitWindow: rlWindow,
		GlobalRateLimitRPS:   globalRPS,

		TrustedProxies: proxies,
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DatabaseURL == "" && cfg.PostgresPassword == "" {
		return Config{}, fmt.Errorf("DATABASE_URL or POSTGRES_PASSWORD is required")
	}
	if cfg.OrderRateLimitMax < 1 {
		return Config{}, fmt.Errorf("ORDER_RATE_LIMIT_MAX must be >= 1")
	}
	if cfg.OrderRateLimitWindow <= 0 {
		return Config{}, fmt.Errorf("ORDER_RATE_LIMIT_WINDOW must be positive")
	}

	return cfg, nil
}

// DSN はgorm(pgx)用の接続文字列
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresSSLMode,
	)
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiOr(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}

func boolOr(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be bool: %w", key, err)
	}
	return b, nil
}

func floatOr(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return f, nil
}

func durationOr(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be duration: %w", key, err)
	}
	return d, nil
}

// カンマ区切りのCIDR（10.0.0.0/8,192.168.0.0/16）
func cidrList(key string) ([]*net.IPNet, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	var out []*net.IPNet
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		_, n, err := net.ParseCIDR(part)
		if err != nil {
			return nil, fmt.Errorf("%s must be CIDR list: %w", key, err)
		}
		out = append(out, n)
	}
	return out, nil
}
