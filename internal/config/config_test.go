package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "info", cfg.LogLevel)

	assert.Equal(t, 993, cfg.MailPort)
	assert.True(t, cfg.MailTLS)
	assert.Equal(t, "INBOX", cfg.MailMailbox)

	assert.Equal(t, 5*time.Second, cfg.ReconnectBaseDelay)
	assert.Equal(t, 60*time.Second, cfg.ReconnectMaxDelay)
	assert.Equal(t, 10, cfg.ReconnectMaxAttempts)

	assert.Equal(t, 90, cfg.ConfidenceThreshold)
	assert.Equal(t, 15*time.Second, cfg.PollInterval)
	assert.Equal(t, 5, cfg.PollWindow)

	assert.Equal(t, 10*time.Second, cfg.StorefrontTimeout)
	assert.Equal(t, 3, cfg.StorefrontMaxRetries)
	assert.Equal(t, time.Second, cfg.StorefrontRetryBaseDelay)

	assert.Equal(t, "etransfer", cfg.MetricsNamespace)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAIL_HOST", "imap.example.com")
	t.Setenv("MAIL_PORT", "143")
	t.Setenv("MAIL_TLS", "false")
	t.Setenv("CONFIDENCE_THRESHOLD", "70")
	t.Setenv("RECONNECT_BASE_DELAY_MS", "1000")
	t.Setenv("POLL_WINDOW", "10")

	cfg := Load()

	assert.Equal(t, "imap.example.com", cfg.MailHost)
	assert.Equal(t, 143, cfg.MailPort)
	assert.False(t, cfg.MailTLS)
	assert.Equal(t, 70, cfg.ConfidenceThreshold)
	assert.Equal(t, time.Second, cfg.ReconnectBaseDelay)
	assert.Equal(t, 10, cfg.PollWindow)
}

func TestConfig_AllowedSenderDomains(t *testing.T) {
	t.Setenv("MAIL_ALLOWED_SENDERS", "payments.interac.ca, bank.example.com ,")

	cfg := Load()

	assert.Equal(t, []string{"payments.interac.ca", "bank.example.com"}, cfg.AllowedSenderDomains())
}

func TestConfig_GetGinMode(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	assert.Equal(t, "debug", cfg.GetGinMode())

	cfg.LogLevel = "info"
	assert.Equal(t, "release", cfg.GetGinMode())
}
