package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log      *zap.Logger
	initOnce sync.Once
)

// Init は環境ごとにzapを初期化する（prodはJSON）
func Init(env string) {
	var cfg zap.Config

	if env == "prod" || env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "json"
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.OutputPaths = []string{"stdout"}
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic(err)
	}
	log = l
}

// L はグローバルのlogger
// 未初期化なら最初の呼び出しで一度だけInitする
func L() *zap.Logger {
	initOnce.Do(func() {
		if log == nil {
			Init(os.Getenv("GO_ENV"))
		}
	})
	return log
}

// テスト用に差し替える。戻り値で元に戻せる。
func Replace(l *zap.Logger) func() {
	prev := log
	log = l
	return func() { log = prev }
}

// バッファに残ったログを書き出す
func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
