package configs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("EDUDBT_TEST_KEY", "value")
	assert.Equal(t, "value", GetEnv("EDUDBT_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("EDUDBT_TEST_MISSING", "fallback"))
	assert.Equal(t, "", GetEnv("EDUDBT_TEST_MISSING"))

	t.Setenv("EDUDBT_TEST_EMPTY", "")
	assert.Equal(t, "fallback", GetEnv("EDUDBT_TEST_EMPTY", "fallback"))
}

func TestLoadEnvDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CHAT_RETENTION_DAYS", "7")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,,")
	t.Setenv("LLM_TIMEOUT_SECONDS", "nope")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/edudbt")

	cfg := LoadEnv()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, "secret", cfg.AadhaarPepper)
	assert.Equal(t, 7*24*time.Hour, cfg.ChatRetention)
	assert.Equal(t, 30*time.Second, cfg.LLMTimeout)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CorsOrigins)
	assert.Equal(t, "postgres://u:p@db/edudbt", cfg.DatabaseURL)
	assert.Equal(t, 10, cfg.ChatContextTurns)
}
