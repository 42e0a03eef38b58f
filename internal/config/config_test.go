package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("DATABASE_DRIVER", "")

	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.DSN)
	assert.Equal(t, AuthModeNone, cfg.Auth.Mode)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.Equal(t, 3, cfg.Booking.SubmitRatePerMinute)
	assert.True(t, cfg.Booking.SyntheticFallback)
	assert.Empty(t, cfg.CORS.AllowedOrigins)
}

func TestNewConfig_FromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "POSTGRES")
	t.Setenv("DATABASE_DSN", "postgres://localhost/consultorio")
	t.Setenv("AUTH_MODE", "local")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")

	cfg := NewConfig()

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/consultorio", cfg.Database.DSN)
	assert.Equal(t, AuthModeLocal, cfg.Auth.Mode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{
			name: "valid sqlite",
			cfg:  Config{Database: Database{Driver: "sqlite", DSN: "./x.db"}, Auth: Auth{Mode: AuthModeNone}},
		},
		{
			name:    "missing dsn",
			cfg:     Config{Database: Database{Driver: "sqlite", DSN: "  "}, Auth: Auth{Mode: AuthModeNone}},
			wantErr: ErrBackendUnconfigured,
		},
		{
			name:    "unknown driver",
			cfg:     Config{Database: Database{Driver: "mysql", DSN: "x"}, Auth: Auth{Mode: AuthModeNone}},
			wantErr: ErrBackendUnconfigured,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}

	t.Run("unknown auth mode", func(t *testing.T) {
		cfg := Config{Database: Database{Driver: "sqlite", DSN: "x"}, Auth: Auth{Mode: "oauth"}}
		assert.Error(t, cfg.Validate())
	})
}
