package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	cfg := &Config{}
	cfg.Database.Postgres.Database = "funnel"
	cfg.Database.Postgres.User = "funnel"
	cfg.Webhook.URL = "https://crm.example.com/hooks/abc"
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := validTestConfig()
	applyDefaults(cfg)

	assert.Equal(t, "funnel-engine", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, 86400, cfg.Database.Redis.RunTTL)
	assert.Equal(t, 24*time.Hour, cfg.Database.Redis.RunStateTTL())
	assert.Equal(t, 15*time.Second, cfg.Webhook.RequestTimeout())
	assert.Equal(t, "warm", cfg.Alerts.MinTier)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing database name",
			mutate:  func(c *Config) { c.Database.Postgres.Database = "" },
			wantErr: "database.postgres.database",
		},
		{
			name:    "missing webhook url",
			mutate:  func(c *Config) { c.Webhook.URL = "" },
			wantErr: "webhook.url is required",
		},
		{
			name:    "relative webhook url",
			mutate:  func(c *Config) { c.Webhook.URL = "/hooks/abc" },
			wantErr: "not a valid absolute URL",
		},
		{
			name: "email alerts without addresses",
			mutate: func(c *Config) {
				c.Alerts.Email.Enabled = true
			},
			wantErr: "alerts.email",
		},
		{
			name: "sms alerts without phone",
			mutate: func(c *Config) {
				c.Alerts.SMS.Enabled = true
			},
			wantErr: "alerts.sms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := PostgresConfig{
		Host: "db.internal", Port: 5432, Database: "funnel",
		User: "svc", Password: "secret", SSLMode: "require",
	}
	assert.Equal(t,
		"host=db.internal port=5432 user=svc password=secret dbname=funnel sslmode=require",
		cfg.GetDSN())
}
