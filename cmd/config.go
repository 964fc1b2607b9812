package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/pkg/errs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSslMode   string
	LogLevel    string
	Environment string

	DefaultTimezone string
	KitchensFile    string

	// PaymentAllowFailedRetry decides whether a failed payment may go back
	// to pending. It has no default.
	PaymentAllowFailedRetry bool
	SequenceMaxAttempts     int
	RequestTimeout          time.Duration

	DispatchWorkers        int
	DispatchQueueSize      int
	DeliveryMaxAttempts    int
	DeliveryBaseDelay      time.Duration
	DeliveryMaxDelay       time.Duration
	DeliveryAttemptTimeout time.Duration
	DeliveryRetryCron      string
	OutboxRelayCron        string
	OutboxRelayGrace       time.Duration

	RabbitMQURL    string
	NatsURL        string
	TelegramToken  string
	WebhookEnabled bool
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig loads envFile when it exists and reads the configuration from
// the process environment. Variables already set take precedence.
func LoadConfig(envFile string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds the configuration from getenv and reports every
// invalid or missing value at once.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	r := envReader{getenv: getenv}

	cfg := Config{
		HTTPPort:    r.str("HTTP_PORT", "8080"),
		DBHost:      r.str("DB_HOST", "localhost"),
		DBPort:      r.str("DB_PORT", "5432"),
		DBUser:      r.str("DB_USER", "postgres"),
		DBPassword:  r.str("DB_PASSWORD", ""),
		DBName:      r.str("DB_NAME", "backoffice"),
		DBSslMode:   r.str("DB_SSLMODE", "disable"),
		LogLevel:    r.str("LOG_LEVEL", "info"),
		Environment: r.str("ENVIRONMENT", "development"),

		DefaultTimezone: r.str("DEFAULT_TIMEZONE", "UTC"),
		KitchensFile:    r.str("KITCHENS_FILE", ""),

		PaymentAllowFailedRetry: r.requiredBool("PAYMENT_ALLOW_FAILED_RETRY"),
		SequenceMaxAttempts:     r.positiveInt("SEQUENCE_MAX_ATTEMPTS", 5),
		RequestTimeout:          r.duration("REQUEST_TIMEOUT", 10*time.Second),

		DispatchWorkers:        r.positiveInt("DISPATCH_WORKERS", 4),
		DispatchQueueSize:      r.positiveInt("DISPATCH_QUEUE_SIZE", 256),
		DeliveryMaxAttempts:    r.positiveInt("DELIVERY_MAX_ATTEMPTS", 5),
		DeliveryBaseDelay:      r.duration("DELIVERY_BASE_DELAY", 2*time.Second),
		DeliveryMaxDelay:       r.duration("DELIVERY_MAX_DELAY", 5*time.Minute),
		DeliveryAttemptTimeout: r.duration("DELIVERY_ATTEMPT_TIMEOUT", 5*time.Second),
		DeliveryRetryCron:      r.str("DELIVERY_RETRY_CRON", "*/5 * * * * *"),
		OutboxRelayCron:        r.str("OUTBOX_RELAY_CRON", "*/10 * * * * *"),
		OutboxRelayGrace:       r.duration("OUTBOX_RELAY_GRACE", 30*time.Second),

		RabbitMQURL:    r.str("RABBITMQ_URL", ""),
		NatsURL:        r.str("NATS_URL", ""),
		TelegramToken:  r.str("TELEGRAM_TOKEN", ""),
		WebhookEnabled: r.boolean("WEBHOOK_ENABLED", false),
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (r *envReader) str(key, def string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return def
}

func (r *envReader) positiveInt(key string, def int) int {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	if n < 1 {
		r.errs = append(r.errs, errs.NewValueIsOutOfRangeError(key, n, 1, "unbounded"))
		return def
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	if d <= 0 {
		r.errs = append(r.errs, errs.NewValueIsOutOfRangeError(key, v, "1ns", "unbounded"))
		return def
	}
	return d
}

func (r *envReader) boolean(key string, def bool) bool {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, errs.NewValueIsInvalidErrorWithCause(key, err))
		return def
	}
	return b
}

func (r *envReader) requiredBool(key string) bool {
	if strings.TrimSpace(r.getenv(key)) == "" {
		r.errs = append(r.errs, errs.NewValueIsRequiredError(key))
		return false
	}
	return r.boolean(key, false)
}
