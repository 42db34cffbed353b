package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Worker   WorkerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	MinIO    MinIOConfig
	RabbitMQ RabbitMQConfig
	Chat     ChatConfig
	Playback PlaybackConfig
	Webhook  WebhookConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type WorkerConfig struct {
	TempDir         string        `envconfig:"WORKER_TEMP_DIR" default:"/tmp/vidcast"`
	MaxAttempts     int           `envconfig:"WORKER_MAX_ATTEMPTS" default:"3"`
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"vidcast"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"vidcast"`
	DBName   string `envconfig:"POSTGRES_DB" default:"vidcast"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type CacheConfig struct {
	VideoTTL   time.Duration `envconfig:"CACHE_VIDEO_TTL" default:"5m"`
	CDNBaseURL string        `envconfig:"CDN_BASE_URL" default:"http://localhost:8081"`
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"videos"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"vidcast"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"vidcast"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type ChatConfig struct {
	BaseURL string        `envconfig:"CHAT_BASE_URL" default:"http://localhost:9100"`
	APIKey  string        `envconfig:"CHAT_API_KEY" default:""`
	Secret  string        `envconfig:"CHAT_TOKEN_SECRET" default:""`
	Timeout time.Duration `envconfig:"CHAT_TIMEOUT" default:"10s"`
}

type PlaybackConfig struct {
	Secret    string        `envconfig:"PLAYBACK_TOKEN_SECRET" default:""`
	PublicTTL time.Duration `envconfig:"PLAYBACK_PUBLIC_TOKEN_TTL" default:"12h"`
	ViewerTTL time.Duration `envconfig:"PLAYBACK_VIEWER_TOKEN_TTL" default:"1h"`
}

type WebhookConfig struct {
	MediaSecret    string        `envconfig:"MEDIA_WEBHOOK_SECRET" default:""`
	IdentitySecret string        `envconfig:"IDENTITY_WEBHOOK_SECRET" default:""`
	Tolerance      time.Duration `envconfig:"WEBHOOK_TOLERANCE" default:"5m"`
}

type AuthConfig struct {
	SessionSecret string `envconfig:"AUTH_SESSION_SECRET" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
