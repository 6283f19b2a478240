package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.Equal(t, 5, cfg.DBMinConns)
	assert.Equal(t, "./internal/db/migrations", cfg.MigrationsPath)
	assert.Equal(t, 24, cfg.JWTExpiry)
	assert.Equal(t, 10, cfg.MaxUploadMB)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "50")
	t.Setenv("DB_MIN_CONNS", "10")
	t.Setenv("MIGRATIONS_PATH", "/srv/taskora/migrations")
	t.Setenv("API_PORT", "9000")

	cfg := Load()

	assert.Equal(t, 50, cfg.DBMaxConns)
	assert.Equal(t, 10, cfg.DBMinConns)
	assert.Equal(t, "/srv/taskora/migrations", cfg.MigrationsPath)
	assert.Equal(t, "9000", cfg.Port)
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "lots")

	cfg := Load()

	assert.Equal(t, 25, cfg.DBMaxConns)
}
