package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "smartpresence.db", cfg.DatabaseDSN)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 3*time.Second, cfg.AnalyticsTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "SmartPresence, Lda", cfg.PaypayName)
	assert.Equal(t, "840000000", cfg.PaypayNumber)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", " Postgres ")
	t.Setenv("DATABASE_DSN", "postgres://localhost/smartpresence")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://smartpresence.co.mz,http://localhost:5173")
	t.Setenv("S3_BUCKET", "contratos")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"https://smartpresence.co.mz", "http://localhost:5173"}, cfg.CORSOrigins)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "supabase without url",
			env:     map[string]string{"STORE_DRIVER": "supabase", "SUPABASE_JWT_SECRET": "x"},
			wantErr: "SUPABASE_URL is required",
		},
		{
			name:    "supabase without jwt secret",
			env:     map[string]string{"STORE_DRIVER": "supabase", "SUPABASE_URL": "https://x.supabase.co"},
			wantErr: "SUPABASE_JWT_SECRET is required",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"STORE_DRIVER": "mongo"},
			wantErr: "unsupported STORE_DRIVER",
		},
		{
			name:    "malformed duration",
			env:     map[string]string{"STORE_DRIVER": "sqlite", "CACHE_TTL": "soon"},
			wantErr: "parse env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUPABASE_URL", "")
			t.Setenv("SUPABASE_JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_WHATSAPP=258851112222\nPAYPAY_NUMBER=841112222\n"), 0o600))

	t.Setenv("ADMIN_WHATSAPP", "258840000001")
	os.Unsetenv("PAYPAY_NUMBER")
	t.Cleanup(func() { os.Unsetenv("PAYPAY_NUMBER") })

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), path))

	assert.Equal(t, "258840000001", os.Getenv("ADMIN_WHATSAPP"), "existing env wins")
	assert.Equal(t, "841112222", os.Getenv("PAYPAY_NUMBER"))
}
