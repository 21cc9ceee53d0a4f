package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/prodoc/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "JWT_SECRET", "MASTER_LOGIN", "MASTER_PASSWORD", "SESSION_TTL",
		"RECONCILE_INTERVAL", "MAIL_PORT", "ALLOWED_ORIGINS", "HTTP_ADDR", "LOCAL_STORE_PATH",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadFromDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"DATABASE_URL=postgres://localhost/prodoc\n"+
			"JWT_SECRET=segredo\n"+
			"MASTER_LOGIN=MASTER@PRODOC\n"+
			"MASTER_PASSWORD=123456\n"+
			"SESSION_TTL=2h\n"+
			"ALLOWED_ORIGINS=http://a.com, http://b.com\n",
	), 0o600))
	// godotenv não sobrescreve variáveis já definidas; as vazias de clearEnv precisam sumir
	for _, k := range []string{"DATABASE_URL", "JWT_SECRET", "MASTER_LOGIN", "MASTER_PASSWORD", "SESSION_TTL", "ALLOWED_ORIGINS"} {
		os.Unsetenv(k)
	}

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/prodoc", cfg.DatabaseURL)
	assert.Equal(t, "MASTER@PRODOC", cfg.MasterLogin)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Minute, cfg.ReconcileInterval)
	assert.Equal(t, []string{"http://a.com", "http://b.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 587, cfg.MailPort)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.MailEnabled())
}

func TestLoadRequiresDatabaseAndSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "segredo")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("DATABASE_URL", "postgres://localhost/prodoc")
	t.Setenv("JWT_SECRET", "")
	_, err = config.Load()
	assert.Error(t, err)
}

func TestLoadMasterLoginNeedsPassword(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/prodoc")
	t.Setenv("JWT_SECRET", "segredo")
	t.Setenv("MASTER_LOGIN", "MASTER@PRODOC")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/prodoc")
	t.Setenv("JWT_SECRET", "segredo")
	t.Setenv("SESSION_TTL", "doze horas")

	_, err := config.Load()
	assert.Error(t, err)
}
