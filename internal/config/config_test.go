package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("BIDFLOW_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BIDFLOW_JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "BidFlow API", cfg.AppName)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 5*time.Minute, cfg.DashboardCacheTTL)
	require.Equal(t, "bidflow.pipeline.transitions", cfg.PipelineEventSubject)
	require.Equal(t, int64(20<<20), cfg.MaxDocumentSizeBytes())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("BIDFLOW_JWT_SECRET", "secret")
	t.Setenv("BIDFLOW_APP_PORT", "9090")
	t.Setenv("BIDFLOW_DASHBOARD_CACHE_TTL", "30s")
	t.Setenv("BIDFLOW_DOCUMENTS_MAX_SIZE_MB", "5")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
	require.Equal(t, int64(5<<20), cfg.MaxDocumentSizeBytes())
}
