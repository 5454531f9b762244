package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_OverlaysEnvironment(t *testing.T) {
	t.Setenv("SECRETKEY_ACCESS", "env-secret")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("AUTH_TOKENTTL", "30m")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.SecretKey.Access)
	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	require.NotNil(t, cfg.Mongo)
	assert.Equal(t, "users", cfg.Mongo.Collection)
}

func TestNew_RequiresSecret(t *testing.T) {
	t.Setenv("SECRETKEY_ACCESS", "")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	require.NotNil(t, cfg.Auth)
	assert.Equal(t, defaultBcryptCost, cfg.Auth.BcryptCost)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.HTTP.Port = 3000
		cfg.SecretKey.Access = "secret"
		cfg.Postgres = &PostgresConfig{Host: "localhost", Port: "5432", DBName: "accounts"}
		cfg.applyDefaults()

		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:   "valid postgres config",
			mutate: func(cfg *Config) {},
		},
		{
			name:    "unknown store driver",
			mutate:  func(cfg *Config) { cfg.Store.Driver = "sqlite" },
			wantErr: "Driver",
		},
		{
			name:    "mongo driver without mongo section",
			mutate:  func(cfg *Config) { cfg.Store.Driver = StoreDriverMongo },
			wantErr: "mongo section is required",
		},
		{
			name: "postgres driver without postgres section",
			mutate: func(cfg *Config) {
				cfg.Postgres = nil
			},
			wantErr: "postgres section is required",
		},
		{
			name:    "port out of range",
			mutate:  func(cfg *Config) { cfg.HTTP.Port = 70000 },
			wantErr: "Port",
		},
		{
			name: "google pubsub without project",
			mutate: func(cfg *Config) {
				cfg.PubSub = &PubSubConfig{Provider: "google", TopicID: "accounts"}
			},
			wantErr: "ProjectID",
		},
		{
			name: "local pubsub with endpoint",
			mutate: func(cfg *Config) {
				cfg.PubSub = &PubSubConfig{Provider: "local", LocalEndpoint: "http://localhost:8081/events"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
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
