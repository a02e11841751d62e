package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"HOST", "PORT", "ENV", "LOG_LEVEL", "PUBLIC_DIR", "SEND_BUFFER"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Host)
	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, "development", cfg.Env)
	require.Equal(t, 16, cfg.SendBuffer)
	require.True(t, cfg.IsDevelopment())
	require.Equal(t, "0.0.0.0:3000", cfg.Addr())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8081")
	t.Setenv("ENV", "production")
	t.Setenv("SEND_BUFFER", "4")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8081", cfg.Addr())
	require.Equal(t, 4, cfg.SendBuffer)
	require.False(t, cfg.IsDevelopment())
}
