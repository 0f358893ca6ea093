package config_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/frontdesk-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Billing.Currency)
	assert.True(t, decimal.NewFromInt(6).Equal(cfg.Billing.RoomVATRate))
	assert.Equal(t, 30*time.Second, cfg.Scheduler.OptionSweepInterval)
	assert.Equal(t, 10*time.Second, cfg.Scheduler.ReminderSweepInterval)
	assert.Equal(t, "INV", cfg.Numbering.Invoice.Prefix)
	assert.True(t, cfg.Numbering.Invoice.YearlyReset)
	assert.Equal(t, config.PersistencePostgres, cfg.DB.Persistence)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("BILLING_CURRENCY", "usd")
	t.Setenv("SCHEDULER_OPTION_INTERVAL", "1m")
	t.Setenv("SCHEDULER_REMINDER_INTERVAL", "5")
	t.Setenv("NUMBERING_PROFORMA_PREFIX", "PRO")
	t.Setenv("PERSISTENCE", "memory")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "USD", cfg.Billing.Currency)
	assert.Equal(t, time.Minute, cfg.Scheduler.OptionSweepInterval)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.ReminderSweepInterval)
	assert.Equal(t, "PRO", cfg.Numbering.Proforma.Prefix)
	assert.Equal(t, config.PersistenceMemory, cfg.DB.Persistence)
}

func TestLoad_MonedaInvalida(t *testing.T) {
	t.Setenv("BILLING_CURRENCY", "EURO")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_SecretObligatorioEnProduccion(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}
