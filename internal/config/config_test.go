package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithMemoryStore(t *testing.T) {
	t.Setenv("ALUMNI_STORE_DRIVER", StoreDriverMemory)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.Security.SessionTTL)
	assert.Equal(t, "alumni.sid", cfg.Security.CookieName)
	assert.Equal(t, "alumni:tasks", cfg.Redis.Stream)
	assert.Equal(t, 10*time.Second, cfg.Worker.ClaimInterval)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "0 0 * * * *", cfg.Worker.CleanupSpec)
}

func TestLoadAcceptsCronDescriptor(t *testing.T) {
	t.Setenv("ALUMNI_STORE_DRIVER", StoreDriverMemory)
	t.Setenv("ALUMNI_WORKER_CLEANUPSPEC", "@every 30m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "@every 30m", cfg.Worker.CleanupSpec)
}

func TestLoadReadsEnvironmentOverrides(t *testing.T) {
	t.Setenv("ALUMNI_STORE_DRIVER", StoreDriverPostgres)
	t.Setenv("ALUMNI_POSTGRES_DSN", "postgres://alumni@localhost:5432/alumni")
	t.Setenv("ALUMNI_SECURITY_SESSIONTTL", "2h")
	t.Setenv("ALUMNI_ALLOWCORSORIGINS", "http://localhost:5173,https://alumni.example.edu")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://alumni@localhost:5432/alumni", cfg.Postgres.DSN)
	assert.Equal(t, 2*time.Hour, cfg.Security.SessionTTL)
	assert.Equal(t, []string{"http://localhost:5173", "https://alumni.example.edu"}, cfg.AllowCORSOrigins)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("ALUMNI_STORE_DRIVER", StoreDriverPostgres)
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("ALUMNI_STORE_DRIVER", "mongo")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("zero claim interval", func(t *testing.T) {
		t.Setenv("ALUMNI_STORE_DRIVER", StoreDriverMemory)
		t.Setenv("ALUMNI_WORKER_CLAIMINTERVAL", "0s")
		_, err := Load()
		assert.ErrorContains(t, err, "worker.claiminterval")
	})

	t.Run("negative claim interval", func(t *testing.T) {
		t.Setenv("ALUMNI_STORE_DRIVER", StoreDriverMemory)
		t.Setenv("ALUMNI_WORKER_CLAIMINTERVAL", "-5s")
		_, err := Load()
		assert.ErrorContains(t, err, "worker.claiminterval")
	})

	t.Run("unparseable cleanup spec", func(t *testing.T) {
		t.Setenv("ALUMNI_STORE_DRIVER", StoreDriverMemory)
		t.Setenv("ALUMNI_WORKER_CLEANUPSPEC", "every hour")
		_, err := Load()
		assert.ErrorContains(t, err, "worker.cleanupspec")
	})

	t.Run("five-field cleanup spec", func(t *testing.T) {
		t.Setenv("ALUMNI_STORE_DRIVER", StoreDriverMemory)
		t.Setenv("ALUMNI_WORKER_CLEANUPSPEC", "0 * * * *")
		_, err := Load()
		assert.ErrorContains(t, err, "worker.cleanupspec")
	})

	t.Run("production with default secret", func(t *testing.T) {
		t.Setenv("ALUMNI_STORE_DRIVER", StoreDriverMemory)
		t.Setenv("ALUMNI_ENVIRONMENT", "production")
		_, err := Load()
		assert.Error(t, err)
	})
}
