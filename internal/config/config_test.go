package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("SERVER_HOST", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":5000", cfg.Server.Address())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "chemistdb", cfg.Database.Database)
	assert.Equal(t, 30, cfg.Inventory.ExpiringSoonDays)
	assert.Equal(t, 10, cfg.Inventory.DefaultMinimumStock)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.ReportArchiveEnabled())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("INVENTORY_EXPIRING_SOON_DAYS", "45")
	t.Setenv("AWS_REPORT_BUCKET", "chemist-reports")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("DB_SEED", "true")
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "8080")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.True(t, cfg.Database.Seed)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Address())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 45, cfg.Inventory.ExpiringSoonDays)
	assert.True(t, cfg.ReportArchiveEnabled())
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "development",
			Database:    DatabaseConfig{Driver: "postgres"},
			JWT:         JWTConfig{SecretKey: defaultJWTSecret},
			RateLimit:   RateLimitConfig{Enabled: true, RequestsPerSecond: 10, Burst: 20},
			Inventory:   InventoryConfig{ExpiringSoonDays: 30, DefaultMinimumStock: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid development config", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "unsupported database driver"},
		{name: "default jwt secret in production", mutate: func(c *Config) {
			c.Environment = "production"
			c.JWT.Enabled = true
			c.Database.Password = "secret"
		}, wantErr: "JWT secret"},
		{name: "missing db password in production", mutate: func(c *Config) { c.Environment = "production" }, wantErr: "database password"},
		{name: "memory driver needs no password", mutate: func(c *Config) {
			c.Environment = "production"
			c.Database.Driver = "memory"
		}},
		{name: "negative expiring window", mutate: func(c *Config) { c.Inventory.ExpiringSoonDays = -1 }, wantErr: "EXPIRING_SOON_DAYS"},
		{name: "zero burst", mutate: func(c *Config) { c.RateLimit.Burst = 0 }, wantErr: "rate limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Database: "chemistdb", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=chemistdb sslmode=disable TimeZone=UTC", d.DSN())
}
