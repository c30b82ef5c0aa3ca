package config

import (
	"log/slog"
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NilError(t, err)

	assert.Equal(t, cfg.Env, "development")
	assert.Equal(t, cfg.Server.Port, 8080)
	assert.Equal(t, cfg.Server.MaxBodyBytes, int64(10<<20))
	assert.Equal(t, cfg.Database.Driver, DriverPostgres)
	assert.Equal(t, cfg.RateLimit.Max, 1000)
	assert.Equal(t, cfg.RateLimit.Window, 15*time.Minute)
	assert.Equal(t, cfg.LogLevel(), slog.LevelDebug)
	assert.DeepEqual(t, cfg.Origins(), []string{"http://localhost:3000", "http://localhost:5173"})
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("RATE_LIMIT_WINDOW", "1m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg, err := Load()
	assert.NilError(t, err)

	assert.Equal(t, cfg.Addr(), "0.0.0.0:9090")
	assert.Equal(t, cfg.Database.Driver, DriverMemory)
	assert.Equal(t, cfg.RateLimit.Window, time.Minute)
	assert.Equal(t, cfg.LogLevel(), slog.LevelInfo)
	assert.Check(t, !cfg.IsDevelopment())
	assert.DeepEqual(t, cfg.Origins(), []string{"https://a.example", "https://b.example"})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:      "test",
			Server:   ServerConfig{Port: 8080, MaxBodyBytes: 1024},
			Database: DatabaseConfig{Driver: DriverMemory},
			RateLimit: RateLimitConfig{
				Enabled: true, Max: 10, Window: time.Minute, Backend: BackendMemory,
			},
		}
	}
	assert.NilError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"bad env", func(c *Config) { c.Env = "qa" }, "invalid environment"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"bad driver", func(c *Config) { c.Database.Driver = "sqlite" }, "invalid store driver"},
		{"missing dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, "DATABASE_URL"},
		{"zero budget", func(c *Config) { c.RateLimit.Max = 0 }, "RATE_LIMIT_MAX"},
		{"redis without address", func(c *Config) { c.RateLimit.Backend = BackendRedis }, "REDIS_ADDRESS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Check(t, is.ErrorContains(c.Validate(), tt.errMsg))
		})
	}

	c := valid()
	c.RateLimit = RateLimitConfig{Enabled: false}
	assert.NilError(t, c.Validate(), "limiter values are ignored when disabled")
}
