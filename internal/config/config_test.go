package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSecret = "0123456789abcdef0123456789abcdef"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: \""+validSecret+"\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Database.StoreTimeout)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpires)
	assert.Equal(t, 30*24*time.Hour, cfg.JWT.RefreshExpires)
	assert.Equal(t, []string{"access", "refresh"}, cfg.JWT.DenylistTokenChecks)
	require.NotNil(t, cfg.JWT.DenylistEnabled)
	assert.True(t, *cfg.JWT.DenylistEnabled)
	require.NotNil(t, cfg.JWT.RefreshEmbedsClaims)
	assert.True(t, *cfg.JWT.RefreshEmbedsClaims)
	assert.Equal(t, "denylist:", cfg.Redis.KeyPrefix)
	assert.Equal(t, 2*time.Minute, cfg.Codes.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Codes.PurgeAfter)
}

func TestLoad_Durations(t *testing.T) {
	path := writeConfig(t, `
jwt:
  secret: "`+validSecret+`"
  access_expires: 5m
  refresh_expires: 48h
  denylist_enabled: true
  denylist_token_checks: ["refresh"]
  refresh_embeds_claims: false
codes:
  ttl: 90s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.JWT.AccessExpires)
	assert.Equal(t, 48*time.Hour, cfg.JWT.RefreshExpires)
	assert.False(t, *cfg.JWT.RefreshEmbedsClaims)
	assert.Equal(t, 90*time.Second, cfg.Codes.TTL)

	assert.True(t, *cfg.JWT.DenylistEnabled)
	assert.Equal(t, []string{"refresh"}, cfg.JWT.DenylistTokenChecks)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: short\nredis:\n  addr: localhost:6379\n")
	t.Setenv("JWT_SECRET", validSecret)
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("DATABASE_URL", "postgres://u:p@db/shop")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, validSecret, cfg.JWT.Secret)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "postgres://u:p@db/shop", cfg.Database.DSN)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"short secret":     "jwt:\n  secret: short\n",
		"access > refresh": "jwt:\n  secret: \"" + validSecret + "\"\n  access_expires: 2h\n  refresh_expires: 1h\n",
		"unknown type":     "jwt:\n  secret: \"" + validSecret + "\"\n  denylist_token_checks: [\"id\"]\n",
		"negative ttl":     "jwt:\n  secret: \"" + validSecret + "\"\ncodes:\n  ttl: -1m\n",
		"broken yaml":      "jwt: [\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_DenylistCanBeDisabled(t *testing.T) {
	path := writeConfig(t, "jwt:\n  secret: \""+validSecret+"\"\n  denylist_enabled: false\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.JWT.DenylistEnabled)
	assert.False(t, *cfg.JWT.DenylistEnabled)
	assert.Equal(t, []string{"access", "refresh"}, cfg.JWT.DenylistTokenChecks)
}
