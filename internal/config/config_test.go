package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("GIST_ID", "abc123")
	t.Setenv("SEED_BALANCE", "")
	t.Setenv("HISTORY_LIMIT", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "tg-token", cfg.TelegramToken)
	assert.True(t, cfg.SeedBalance.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, 10, cfg.HistoryLimit)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SEED_BALANCE", "0")
	t.Setenv("HISTORY_LIMIT", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.SeedBalance.IsZero())
	assert.Equal(t, 25, cfg.HistoryLimit)
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("GIST_ID", "")

	_, err := Load()
	assert.ErrorContains(t, err, "GIST_ID")
}

func TestLoadRejectsBadValues(t *testing.T) {
	setRequired(t)
	t.Setenv("SEED_BALANCE", "lots")
	_, err := Load()
	assert.ErrorContains(t, err, "SEED_BALANCE")

	setRequired(t)
	t.Setenv("HISTORY_LIMIT", "-3")
	_, err = Load()
	assert.ErrorContains(t, err, "HISTORY_LIMIT")
}
