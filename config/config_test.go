package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvFallbacks(t *testing.T) {
	assert.Equal(t, "dev", getEnv("GROCERY_UNSET_STRING", "dev"))
	assert.Equal(t, 7, getEnvInt("GROCERY_UNSET_INT", 7))
	assert.True(t, getEnvBool("GROCERY_UNSET_BOOL", true))
	assert.Equal(t, []string{"a"}, getEnvSlice("GROCERY_UNSET_SLICE", []string{"a"}))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("HTTP_PORT", ":9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "postgres://grocery@localhost/grocery")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("LOGGER_DISABLE_CALLER", "true")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://shop.example, https://admin.example")
	t.Setenv("MEDIA_ROOT", "/srv/media")

	cfg := LoadEnv()

	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, ":9000", cfg.Server.HTTPPort)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://grocery@localhost/grocery", cfg.Database.URL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Logger.DisableCaller)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.Server.CORSAllowOrigins)
	assert.Equal(t, "/srv/media", cfg.Media.Root)
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("DB_MAX_IDLE_CONNS", "lots")
	assert.Equal(t, 5, getEnvInt("DB_MAX_IDLE_CONNS", 5))
}
