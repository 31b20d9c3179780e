package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	pkgkafka "github.com/bibbank/mt799-service/pkg/kafka"
	pgpkg "github.com/bibbank/mt799-service/pkg/postgres"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreBadger   = "badger"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	HTTPPort  int    `env:"HTTP_PORT,default=8080" validate:"min=1,max=65535"`
	GRPCPort  int    `env:"GRPC_PORT,default=9090" validate:"min=1,max=65535"`
	LogLevel  string `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn warning error"`
	LogFormat string `env:"LOG_FORMAT,default=json" validate:"oneof=json text"`

	StoreDriver string `env:"STORE_DRIVER,default=postgres" validate:"oneof=postgres badger"`
	DB          DBConfig
	BadgerPath  string `env:"BADGER_PATH,default=./data/mt799"`

	Kafka  KafkaConfig
	Outbox OutboxConfig
	Auth   AuthConfig
	HTTP   HTTPConfig
	TLS    TLSConfig
	Parser ParserConfig
}

type DBConfig struct {
	Host          string `env:"DB_HOST,default=localhost"`
	Port          int    `env:"DB_PORT,default=5432"`
	User          string `env:"DB_USER,default=swift"`
	Password      string `env:"DB_PASSWORD"`
	Name          string `env:"DB_NAME,default=mt799"`
	SSLMode       string `env:"DB_SSLMODE,default=require" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns      int    `env:"DB_MAX_CONNS,default=20" validate:"min=0"`
	MinConns      int    `env:"DB_MIN_CONNS,default=2" validate:"min=0"`
	// MigrationsDir overrides the migrations embedded in the binary.
	MigrationsDir string `env:"DB_MIGRATIONS_DIR"`
}

type KafkaConfig struct {
	// Brokers is a comma separated list; empty disables Kafka entirely.
	Brokers       string `env:"KAFKA_BROKERS"`
	EventsTopic   string `env:"KAFKA_EVENTS_TOPIC,default=bib.swift.events"`
	IngestTopic   string `env:"KAFKA_INGEST_TOPIC"`
	ConsumerGroup string `env:"KAFKA_CONSUMER_GROUP,default=mt799-service"`
	TLS           bool   `env:"KAFKA_TLS"`
	SASLMechanism string `env:"KAFKA_SASL_MECHANISM"`
	SASLUsername  string `env:"KAFKA_SASL_USERNAME"`
	SASLPassword  string `env:"KAFKA_SASL_PASSWORD"`
}

type OutboxConfig struct {
	// Schedule is a cron spec, e.g. "@every 5s".
	Schedule  string `env:"OUTBOX_SCHEDULE,default=@every 5s" validate:"required"`
	BatchSize int    `env:"OUTBOX_BATCH_SIZE,default=100" validate:"min=1,max=10000"`
}

type AuthConfig struct {
	Enabled    bool          `env:"AUTH_ENABLED"`
	Secret     string        `env:"JWT_SECRET"`
	PublicKey  string        `env:"JWT_PUBLIC_KEY"`
	Issuer     string        `env:"JWT_ISSUER,default=bib-identity"`
	Expiration time.Duration `env:"JWT_EXPIRATION,default=15m"`
}

type HTTPConfig struct {
	RateLimit      int           `env:"RATE_LIMIT,default=100" validate:"min=0"`
	MaxUploadBytes int           `env:"MAX_UPLOAD_BYTES,default=1048576" validate:"min=1"`
	CORSOrigins    string        `env:"CORS_ALLOWED_ORIGINS,default=*"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT,default=30s"`
}

type TLSConfig struct {
	CertFile string `env:"TLS_CERT_FILE"`
	KeyFile  string `env:"TLS_KEY_FILE"`
}

type ParserConfig struct {
	ValidationPolicy   string `env:"VALIDATION_POLICY,default=ordering" validate:"oneof=ordering pattern"`
	SegmentationPolicy string `env:"SEGMENTATION_POLICY,default=lookahead" validate:"oneof=lookahead linescan"`
}

// Load reads optional dotenv files, then the process environment, and
// validates the result. Missing dotenv files are skipped.
func Load(dotenvFiles ...string) (Config, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and cross-field requirements.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	var errs []error
	if c.StoreDriver == StorePostgres && c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required for the postgres store"))
	}
	if c.Auth.Enabled && c.Auth.Secret == "" && c.Auth.PublicKey == "" {
		errs = append(errs, errors.New("JWT_SECRET or JWT_PUBLIC_KEY is required when AUTH_ENABLED is set"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	if c.Kafka.IngestTopic != "" && c.Kafka.Brokers == "" {
		errs = append(errs, errors.New("KAFKA_INGEST_TOPIC requires KAFKA_BROKERS"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Postgres maps DB settings onto the pool configuration.
func (c Config) Postgres() pgpkg.Config {
	return pgpkg.Config{
		Host:     c.DB.Host,
		Port:     c.DB.Port,
		User:     c.DB.User,
		Password: c.DB.Password,
		Database: c.DB.Name,
		SSLMode:  c.DB.SSLMode,
		MaxConns: int32(c.DB.MaxConns),
		MinConns: int32(c.DB.MinConns),
	}
}

// KafkaEnabled reports whether any brokers are configured.
func (c Config) KafkaEnabled() bool {
	return len(pkgkafka.ParseBrokers(c.Kafka.Brokers)) > 0
}

// KafkaClient maps Kafka settings onto the client configuration.
func (c Config) KafkaClient() pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       pkgkafka.ParseBrokers(c.Kafka.Brokers),
		ConsumerGroup: c.Kafka.ConsumerGroup,
		TLS:           c.Kafka.TLS,
		SASLEnabled:   c.Kafka.SASLUsername != "",
		SASLMechanism: c.Kafka.SASLMechanism,
		SASLUsername:  c.Kafka.SASLUsername,
		SASLPassword:  c.Kafka.SASLPassword,
	}
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.HTTP.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// TLSEnabled reports whether a certificate pair is configured.
func (c Config) TLSEnabled() bool {
	return c.TLS.CertFile != ""
}
