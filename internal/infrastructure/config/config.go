package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config contém todas as configurações da aplicação
type Config struct {
	Env       string
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Payments  PaymentsConfig
	Storage   StorageConfig
	RabbitMQ  RabbitMQConfig
	Realtime  RealtimeConfig
	Logging   LoggingConfig
	CORS      CORSConfig
	Telemetry TelemetryConfig
	Snowflake SnowflakeConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	BaseURL string // URL base da API para construir URIs RFC 7807
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
	MaxIdleTime int
}

// AuthConfig descreve o provedor de autenticação hospedado.
// Os tokens são emitidos por ele; aqui apenas validamos.
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	Audience  string
	AdminIDs  []string
}

type PaymentsConfig struct {
	OmisePublicKey string
	OmiseSecretKey string
	Currency       string
	ReturnURI      string
}

type StorageConfig struct {
	Driver        string // local | s3
	Bucket        string
	Region        string
	Endpoint      string
	UsePathStyle  bool
	LocalDir      string
	PublicBaseURL string
	MaxUploadMB   int64
	PresignTTL    time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
	Queue    string
	Prefetch int
}

type RealtimeConfig struct {
	Source string // inprocess | pg_notify
}

type LoggingConfig struct {
	Level   string
	Backend string // slog | zap
	File    string
}

type CORSConfig struct {
	AllowedOrigins string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

type SnowflakeConfig struct {
	Node int64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("HOST", "0.0.0.0")
	v.SetDefault("API_BASE_URL", "http://localhost:8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("DB_MAX_IDLE_TIME", 300)
	v.SetDefault("PAYMENTS_CURRENCY", "THB")
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_LOCAL_DIR", "./uploads")
	v.SetDefault("STORAGE_REGION", "us-east-1")
	v.SetDefault("STORAGE_MAX_UPLOAD_MB", 10)
	v.SetDefault("STORAGE_PRESIGN_TTL", "15m")
	v.SetDefault("RABBITMQ_EXCHANGE", "marketplace.events")
	v.SetDefault("RABBITMQ_QUEUE", "marketplace.notifications")
	v.SetDefault("RABBITMQ_PREFETCH", 8)
	v.SetDefault("REALTIME_SOURCE", "inprocess")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_BACKEND", "slog")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("OTEL_SERVICE_NAME", "marketplace-api")
	v.SetDefault("SNOWFLAKE_NODE", 1)
}

// Load carrega as configurações do ambiente (e do arquivo .env, se existir)
func Load() (*Config, error) {
	// .env é opcional: em produção as variáveis vêm do ambiente
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return FromViper(v)
}

// FromViper monta a Config a partir de uma instância do viper
func FromViper(v *viper.Viper) (*Config, error) {
	config := &Config{
		Env: v.GetString("ENV"),
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			Host:    v.GetString("HOST"),
			BaseURL: v.GetString("API_BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetInt("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			DBName:      v.GetString("DB_NAME"),
			SSLMode:     v.GetString("DB_SSL_MODE"),
			MaxConns:    v.GetInt("DB_MAX_CONNS"),
			MinConns:    v.GetInt("DB_MIN_CONNS"),
			MaxIdleTime: v.GetInt("DB_MAX_IDLE_TIME"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
			Issuer:    v.GetString("AUTH_ISSUER"),
			Audience:  v.GetString("AUTH_AUDIENCE"),
			AdminIDs:  splitList(v.GetString("AUTH_ADMIN_IDS")),
		},
		Payments: PaymentsConfig{
			OmisePublicKey: v.GetString("OMISE_PUBLIC_KEY"),
			OmiseSecretKey: v.GetString("OMISE_SECRET_KEY"),
			Currency:       strings.ToUpper(v.GetString("PAYMENTS_CURRENCY")),
			ReturnURI:      v.GetString("PAYMENTS_RETURN_URI"),
		},
		Storage: StorageConfig{
			Driver:        v.GetString("STORAGE_DRIVER"),
			Bucket:        v.GetString("STORAGE_BUCKET"),
			Region:        v.GetString("STORAGE_REGION"),
			Endpoint:      v.GetString("STORAGE_ENDPOINT"),
			UsePathStyle:  v.GetBool("STORAGE_USE_PATH_STYLE"),
			LocalDir:      v.GetString("STORAGE_LOCAL_DIR"),
			PublicBaseURL: v.GetString("STORAGE_PUBLIC_BASE_URL"),
			MaxUploadMB:   v.GetInt64("STORAGE_MAX_UPLOAD_MB"),
			PresignTTL:    v.GetDuration("STORAGE_PRESIGN_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
			Queue:    v.GetString("RABBITMQ_QUEUE"),
			Prefetch: v.GetInt("RABBITMQ_PREFETCH"),
		},
		Realtime: RealtimeConfig{
			Source: v.GetString("REALTIME_SOURCE"),
		},
		Logging: LoggingConfig{
			Level:   v.GetString("LOG_LEVEL"),
			Backend: v.GetString("LOG_BACKEND"),
			File:    v.GetString("LOG_FILE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  v.GetString("OTEL_SERVICE_NAME"),
		},
		Snowflake: SnowflakeConfig{
			Node: v.GetInt64("SNOWFLAKE_NODE"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica combinações inválidas de configuração
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "s3" && c.Storage.Bucket == "" {
		return fmt.Errorf("STORAGE_BUCKET is required when STORAGE_DRIVER=s3")
	}
	switch c.Realtime.Source {
	case "inprocess", "pg_notify":
	default:
		return fmt.Errorf("invalid REALTIME_SOURCE %q", c.Realtime.Source)
	}
	if c.Env == "production" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required in production")
	}
	return nil
}

// IsProduction indica se a aplicação roda em produção
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// DSN retorna a connection string do PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
