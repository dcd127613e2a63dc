package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 43200, cfg.JWT.Expiration)
	assert.Equal(t, "http://localhost:3001", cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Assets.Timeout)
	assert.Equal(t, 4, cfg.Assets.MaxConcurrency)
	assert.Equal(t, 3, cfg.Stock.MaxAttempts)
	assert.Equal(t, "", cfg.Redis.Addr)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ASSETS_TIMEOUT", "3s")
	t.Setenv("STOCK_LOCK_TIMEOUT", "2")
	t.Setenv("STOCK_MAX_ATTEMPTS", "5")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.JWT.Secret)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.Assets.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Stock.LockTimeout)
	assert.Equal(t, 5, cfg.Stock.MaxAttempts)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.Origins())
	assert.NoError(t, cfg.Validate())
}

func TestValidate_SecretoVacio(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.JWT.Secret = ""

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5432, User: "u", Password: "p@ss", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/ledger?sslmode=disable", db.ConnectionString())

	db.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", db.ConnectionString())
}
