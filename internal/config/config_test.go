// AngelaMos | 2026
// config_test.go

package config

import (
	"testing"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()

	k := koanf.New(".")
	require.NoError(t, loadDefaults(k))

	c := &Config{}
	require.NoError(t, k.Unmarshal("", c))

	c.Database.URL = "postgres://localhost/jobboard"
	c.Redis.URL = "redis://localhost:6379/0"
	return c
}

func TestDefaultsAreValid(t *testing.T) {
	c := defaultConfig(t)
	require.NoError(t, validate(c))

	assert.Equal(t, StorageLocal, c.Storage.Driver)
	assert.Equal(t, int64(5*1024*1024), c.Storage.MaxResumeBytes)
	assert.Equal(t, "/v1/profiles/resumes", c.Storage.URLPrefix)
	assert.Equal(t, "Authentication", c.Cookie.AccessName)
	assert.Equal(t, "0.0.0.0:8080", c.Server.Address())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing redis url",
			mutate:  func(c *Config) { c.Redis.URL = "" },
			wantErr: "REDIS_URL",
		},
		{
			name: "wildcard origin with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowedOrigins = []string{"*"}
				c.CORS.AllowCredentials = true
			},
			wantErr: "CORS wildcard",
		},
		{
			name:    "unknown storage driver",
			mutate:  func(c *Config) { c.Storage.Driver = "ftp" },
			wantErr: "unknown storage driver",
		},
		{
			name:    "s3 without bucket",
			mutate:  func(c *Config) { c.Storage.Driver = StorageS3 },
			wantErr: "S3_BUCKET",
		},
		{
			name:    "non positive resume limit",
			mutate:  func(c *Config) { c.Storage.MaxResumeBytes = 0 },
			wantErr: "max_resume_bytes",
		},
		{
			name:    "zero connect attempts",
			mutate:  func(c *Config) { c.Redis.ConnectAttempts = 0 },
			wantErr: "connect_attempts",
		},
		{
			name: "same site none without secure",
			mutate: func(c *Config) {
				c.Cookie.SameSite = "none"
				c.Cookie.Secure = false
			},
			wantErr: "requires cookie.secure",
		},
		{
			name:    "bad same site",
			mutate:  func(c *Config) { c.Cookie.SameSite = "sometimes" },
			wantErr: "cookie.same_site",
		},
		{
			name: "insecure otel in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Otel.Enabled = true
				c.Otel.Insecure = true
			},
			wantErr: "OTEL_INSECURE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaultConfig(t)
			tt.mutate(c)

			err := validate(c)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("s3 with bucket", func(t *testing.T) {
		c := defaultConfig(t)
		c.Storage.Driver = StorageS3
		c.Storage.S3.Bucket = "resumes"
		assert.NoError(t, validate(c))
	})
}

func TestEnvKeyReplacer(t *testing.T) {
	assert.Equal(t, "database.url", envKeyReplacer("DATABASE_URL"))
	assert.Equal(t, "storage.s3.bucket", envKeyReplacer("S3_BUCKET"))
	assert.Equal(t, "otel.endpoint", envKeyReplacer("OTEL_EXPORTER_OTLP_ENDPOINT"))
	assert.Empty(t, envKeyReplacer("PATH"))
}
