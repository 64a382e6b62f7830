package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-amm/internal/config"
)

func setRequiredEnv(t *testing.T) string {
	datadir := t.TempDir()
	t.Setenv("AMM_OPERATOR_ID", "operator.near")
	t.Setenv("AMM_ASSET_A_ID", "token-a.near")
	t.Setenv("AMM_ASSET_B_ID", "token-b.near")
	t.Setenv("AMM_POOL_ACCOUNT_ID", "amm.near")
	t.Setenv("AMM_LEDGER_GATEWAY_URL", "http://localhost:7000")
	t.Setenv("AMM_AUTH_SECRET", "supersecret")
	t.Setenv("AMM_DATADIR", datadir)
	return datadir
}

func TestInitConfig(t *testing.T) {
	datadir := setRequiredEnv(t)
	t.Setenv("AMM_ENABLE_PROFILER", "true")
	t.Setenv("AMM_METADATA_TIMEOUT", "5")

	err := config.InitConfig()
	require.NoError(t, err)

	require.Equal(t, "operator.near", config.GetString(config.OperatorIDKey))
	require.Equal(t, 9945, config.GetInt(config.ListeningPortKey))
	require.Equal(t, config.DBBadger, config.GetString(config.DBTypeKey))
	require.Equal(t, 5*time.Second, config.GetSeconds(config.MetadataTimeoutKey))
	require.Equal(t, 15*time.Second, config.GetSeconds(config.LedgerTimeoutKey))

	dbDir := config.GetDbDir()
	require.Equal(t, filepath.Join(datadir, config.DbLocation), dbDir)
	_, err = os.Stat(dbDir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(datadir, config.ProfilerLocation))
	require.NoError(t, err)
}

func TestInitConfigInmemory(t *testing.T) {
	datadir := setRequiredEnv(t)
	t.Setenv("AMM_DB_TYPE", "inmemory")

	err := config.InitConfig()
	require.NoError(t, err)
	require.Empty(t, config.GetDbDir())

	_, err = os.Stat(filepath.Join(datadir, config.DbLocation))
	require.True(t, os.IsNotExist(err))
}

func TestFailingInitConfig(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"missing_operator", "AMM_OPERATOR_ID", ""},
		{"missing_secret", "AMM_AUTH_SECRET", ""},
		{"same_assets", "AMM_ASSET_B_ID", "token-a.near"},
		{"invalid_gateway_url", "AMM_LEDGER_GATEWAY_URL", "not a url"},
		{"invalid_db_type", "AMM_DB_TYPE", "postgres"},
		{"invalid_port", "AMM_LISTENING_PORT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.value)

			err := config.InitConfig()
			require.Error(t, err)
		})
	}
}
