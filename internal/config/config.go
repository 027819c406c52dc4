package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット（認証サービスと共有）

	RedisAddr string // セッション用Redis（localhost:6379）
	RedisDB   int

	KafkaBrokers string // 空ならイベント送信なし

	StoreConfigPath    string        // ストア設定YAML
	CheckoutSessionTTL time.Duration // カート放棄までの時間

	OtelExporter string // stdout/otlp/none
	OtelEndpoint string

	LogLevel string
}

// Loadは環境変数
// DB接続情報は db.Connect が直接読む
func Load() (Config, error) {
	redisDB, err := atoiDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	ttl, err := durationDefault("CHECKOUT_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   redisDB,

		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),

		StoreConfigPath:    getenv("STORE_CONFIG", "configs/store.yaml"),
		CheckoutSessionTTL: ttl,

		OtelExporter: getenv("OTEL_EXPORTER", "none"),
		OtelEndpoint: os.Getenv("OTEL_ENDPOINT"),

		LogLevel: getenv("LOG_LEVEL", "info"),
	}

	//必須チェック
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if ttl <= 0 {
		return Config{}, fmt.Errorf("CHECKOUT_SESSION_TTL must be positive")
	}
	switch cfg.OtelExporter {
	case "stdout", "otlp", "none":
	default:
		return Config{}, fmt.Errorf("OTEL_EXPORTER must be stdout, otlp or none")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
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

func durationDefault(key string, def time.Duration) (time.Duration, error) {
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
