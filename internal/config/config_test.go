package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wod-booker/internal/config"
)

func writeConfig(t *testing.T, yaml string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoadDefaults(t *testing.T) {
	writeConfig(t, `
accounts:
  - name: vini
    email: vini@example.com
    password: secret
    token: tok
`)
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 5*time.Second, cfg.StepTimeout)
	assert.Equal(t, 48*time.Hour, cfg.BookingTTL)
	assert.Equal(t, "17:00-18:00", cfg.CrawlSlot)
	assert.Equal(t, []string{"Sign up", "Aanmelden"}, cfg.SignUpLabels)
	assert.True(t, cfg.Headless)

	acct, ok := cfg.AccountByName("vini")
	require.True(t, ok)
	assert.Equal(t, "vini@example.com", acct.Email)
	_, ok = cfg.AccountByName("nobody")
	assert.False(t, ok)
}

func TestLoadRejectsShortBookingTTL(t *testing.T) {
	writeConfig(t, `
booking_ttl: 1h
`)
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking_ttl")
}

func TestLoadRejectsDuplicateAccounts(t *testing.T) {
	writeConfig(t, `
accounts:
  - {name: vini, email: a@example.com, password: p, token: t1}
  - {name: vini, email: b@example.com, password: p, token: t2}
`)
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestLoadRejectsAccountWithoutToken(t *testing.T) {
	writeConfig(t, `
accounts:
  - {name: vini, email: a@example.com, password: p}
`)
	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}
