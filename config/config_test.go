package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
		check   func(t *testing.T, s *Settings)
	}{
		{
			name: "postgres with explicit secret",
			env: map[string]string{
				"DB_DRIVER":    "postgres",
				"DATABASE_URL": "postgres://u:p@localhost:5432/imageworld",
				"JWT_SECRET":   "s3cret",
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "s3cret", s.JWTSecret)
				assert.False(t, s.UsingDefaultSecret())
				assert.Equal(t, "3000", s.Port)
				assert.Equal(t, 101, s.BodyLimitMB)
				assert.Equal(t, 50*time.Second, s.ArchiveTimeout)
				assert.False(t, s.ArchiveEnabled())
			},
		},
		{
			name: "missing secret falls back to default",
			env: map[string]string{
				"DB_DRIVER":    "sqlite",
				"DATABASE_URL": ":memory:",
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, DefaultJWTSecret, s.JWTSecret)
				assert.True(t, s.UsingDefaultSecret())
			},
		},
		{
			name: "sqlite gets a default file",
			env:  map[string]string{"DB_DRIVER": "sqlite"},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "imageworld.db", s.DatabaseURL)
			},
		},
		{
			name:    "postgres requires a url",
			env:     map[string]string{"DB_DRIVER": "postgres"},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"DB_DRIVER": "mysql", "DATABASE_URL": "x"},
			wantErr: true,
		},
		{
			name: "archive bucket enables archiving",
			env: map[string]string{
				"DB_DRIVER":      "sqlite",
				"ARCHIVE_BUCKET": "results",
			},
			check: func(t *testing.T, s *Settings) {
				assert.True(t, s.ArchiveEnabled())
				assert.Equal(t, "processed/", s.ArchivePrefix)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"DB_DRIVER", "DATABASE_URL", "JWT_SECRET", "ARCHIVE_BUCKET"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			s, err := Load()
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, s)
				return
			}

			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}
