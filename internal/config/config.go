package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	// OperatorIDKey is the account allowed to add liquidity to the pool
	OperatorIDKey = "OPERATOR_ID"
	// AssetAIDKey is the ledger id of the first asset of the pool
	AssetAIDKey = "ASSET_A_ID"
	// AssetBIDKey is the ledger id of the second asset of the pool
	AssetBIDKey = "ASSET_B_ID"
	// PoolAccountIDKey is the account of the pool itself, the only one allowed
	// to notify transfer settlements
	PoolAccountIDKey = "POOL_ACCOUNT_ID"
	// LedgerGatewayURLKey is the base url of the ledger gateway HTTP API
	LedgerGatewayURLKey = "LEDGER_GATEWAY_URL"
	// AuthSecretKey is the HMAC secret shared with the ledger gateway to sign
	// and verify bearer tokens
	AuthSecretKey = "AUTH_SECRET"
	// ListeningPortKey is the port where the HTTP interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// LedgerRateLimitKey is the max number of requests per second made to the
	// ledger gateway
	LedgerRateLimitKey = "LEDGER_RATE_LIMIT"
	// LedgerTimeoutKey is the timeout in seconds of a request to the ledger
	// gateway
	LedgerTimeoutKey = "LEDGER_TIMEOUT"
	// MetadataTimeoutKey is the time in seconds to wait for the metadata of
	// both assets at startup
	MetadataTimeoutKey = "METADATA_TIMEOUT"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic pool statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	DBBadger   = "badger"
	DBInmemory = "inmemory"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("amm-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("AMM")
	vip.AutomaticEnv()

	vip.SetDefault(ListeningPortKey, 9945)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(LedgerRateLimitKey, 50)
	vip.SetDefault(LedgerTimeoutKey, 15)
	vip.SetDefault(MetadataTimeoutKey, 30)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetSeconds returns the value of key, expressed in seconds, as a duration.
func GetSeconds(key string) time.Duration {
	return time.Duration(vip.GetInt(key)) * time.Second
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetDbDir returns the directory of the badger database, empty when the
// state is kept in memory.
func GetDbDir() string {
	if GetString(DBTypeKey) == DBInmemory {
		return ""
	}
	return filepath.Join(GetDatadir(), DbLocation)
}

func validate() error {
	for _, key := range []string{
		OperatorIDKey, AssetAIDKey, AssetBIDKey, PoolAccountIDKey,
		LedgerGatewayURLKey, AuthSecretKey,
	} {
		if GetString(key) == "" {
			return fmt.Errorf("missing %s", key)
		}
	}

	if GetString(AssetAIDKey) == GetString(AssetBIDKey) {
		return fmt.Errorf("%s and %s must be different", AssetAIDKey, AssetBIDKey)
	}

	if _, err := url.ParseRequestURI(GetString(LedgerGatewayURLKey)); err != nil {
		return fmt.Errorf("invalid %s: %s", LedgerGatewayURLKey, err)
	}

	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInmemory {
		return fmt.Errorf(
			"%s must be either %s or %s", DBTypeKey, DBBadger, DBInmemory,
		)
	}

	for _, key := range []string{
		ListeningPortKey, LedgerRateLimitKey, LedgerTimeoutKey,
		MetadataTimeoutKey, StatsIntervalKey,
	} {
		if GetInt(key) <= 0 {
			return fmt.Errorf("%s must be greater than zero", key)
		}
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if dbDir := GetDbDir(); dbDir != "" {
		if err := makeDirectoryIfNotExists(dbDir); err != nil {
			return err
		}
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
