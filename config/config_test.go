package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Zero(t, cfg.SuccessCloseDelay)
	assert.True(t, cfg.RequireSignIn)
	assert.True(t, cfg.SaveProgress)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.FirebaseEnabled())
	assert.EqualError(t, cfg.RequireBotToken(), "TELEGRAM_BOT_TOKEN environment variable not set")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "/etc/funnel/key.json")
	t.Setenv("FUNNEL_API_URL", "https://api.example.com")
	t.Setenv("FUNNEL_HTTP_TIMEOUT", "3s")
	t.Setenv("FUNNEL_REQUIRE_SIGN_IN", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", cfg.APIURL)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.RequireSignIn)
	assert.True(t, cfg.FirebaseEnabled())
	assert.NoError(t, cfg.RequireBotToken())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"unparsable duration", "FUNNEL_HTTP_TIMEOUT", "soon", "parse env"},
		{"unparsable bool", "FUNNEL_SAVE_PROGRESS", "maybe", "parse env"},
		{"zero timeout", "FUNNEL_HTTP_TIMEOUT", "0s", "must be positive"},
		{"negative delay", "FUNNEL_SUCCESS_CLOSE_DELAY", "-1s", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestCloseDelay(t *testing.T) {
	assert.Equal(t, 3*time.Second, Config{}.CloseDelay(3*time.Second))
	assert.Equal(t, time.Second, Config{SuccessCloseDelay: time.Second}.CloseDelay(3*time.Second))
}
