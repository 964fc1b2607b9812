package cmd_test

import (
	"testing"
	"time"

	"backoffice/cmd"
	"backoffice/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	cfg, err := cmd.ConfigFromEnv(env(map[string]string{"PAYMENT_ALLOW_FAILED_RETRY": "false"}))

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "UTC", cfg.DefaultTimezone)
	assert.False(t, cfg.PaymentAllowFailedRetry)
	assert.Equal(t, 5, cfg.SequenceMaxAttempts)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.DispatchWorkers)
	assert.Equal(t, 256, cfg.DispatchQueueSize)
	assert.Equal(t, 5, cfg.DeliveryMaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.DeliveryBaseDelay)
	assert.Equal(t, 5*time.Minute, cfg.DeliveryMaxDelay)
	assert.Equal(t, "*/5 * * * * *", cfg.DeliveryRetryCron)
	assert.Equal(t, 30*time.Second, cfg.OutboxRelayGrace)
	assert.False(t, cfg.WebhookEnabled)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	cfg, err := cmd.ConfigFromEnv(env(map[string]string{
		"PAYMENT_ALLOW_FAILED_RETRY": "true",
		"DEFAULT_TIMEZONE":           "Europe/Madrid",
		"DISPATCH_WORKERS":           "8",
		"DELIVERY_BASE_DELAY":        "500ms",
		"WEBHOOK_ENABLED":            "1",
		"NATS_URL":                   "nats://localhost:4222",
	}))

	require.NoError(t, err)
	assert.True(t, cfg.PaymentAllowFailedRetry)
	assert.Equal(t, "Europe/Madrid", cfg.DefaultTimezone)
	assert.Equal(t, 8, cfg.DispatchWorkers)
	assert.Equal(t, 500*time.Millisecond, cfg.DeliveryBaseDelay)
	assert.True(t, cfg.WebhookEnabled)
	assert.Equal(t, "nats://localhost:4222", cfg.NatsURL)
}

func TestConfigFromEnv_RequiresPaymentRetryPolicy(t *testing.T) {
	_, err := cmd.ConfigFromEnv(env(nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.Contains(t, err.Error(), "PAYMENT_ALLOW_FAILED_RETRY")
}

func TestConfigFromEnv_ReportsEveryInvalidValue(t *testing.T) {
	_, err := cmd.ConfigFromEnv(env(map[string]string{
		"PAYMENT_ALLOW_FAILED_RETRY": "maybe",
		"DISPATCH_WORKERS":           "0",
		"REQUEST_TIMEOUT":            "soon",
	}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYMENT_ALLOW_FAILED_RETRY")
	assert.Contains(t, err.Error(), "DISPATCH_WORKERS")
	assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
}

func TestConfig_DSN(t *testing.T) {
	cfg := cmd.Config{DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p", DBName: "n", DBSslMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
