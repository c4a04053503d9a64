package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
// All three services share the struct; StockServiceAddress is only consumed
// by the order service and is validated by the stock client constructor.
type Config struct {
	RunAddress          string
	DatabaseURI         string
	StockServiceAddress string
	JWTSecret           string
	TokenTTL            time.Duration
	ShutdownTimeout     time.Duration
	StagedOrderTTL      time.Duration
	ReapInterval        time.Duration
	ReapBatchSize       int
}

const (
	defaultRunAddress      = ":8080"
	defaultJWTSecret       = "change-me-in-production"
	defaultTokenTTL        = 3 * time.Hour
	defaultShutdownTimeout = 10 * time.Second
	defaultStagedOrderTTL  = time.Minute
	defaultReapInterval    = 30 * time.Second
	defaultReapBatchSize   = 64
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:          getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:         getString(lookup, "DATABASE_URI", ""),
		StockServiceAddress: getString(lookup, "STOCK_SERVICE_ADDRESS", ""),
		JWTSecret:           getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:            getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		ShutdownTimeout:     getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		StagedOrderTTL:      getDuration(lookup, "STAGED_ORDER_TTL", defaultStagedOrderTTL),
		ReapInterval:        getDuration(lookup, "REAP_INTERVAL", defaultReapInterval),
		ReapBatchSize:       getInt(lookup, "REAP_BATCH_SIZE", defaultReapBatchSize),
	}

	fs := flag.NewFlagSet("minimart", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		stagedTTLStr       = cfg.StagedOrderTTL.String()
		reapIntervalStr    = cfg.ReapInterval.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.StockServiceAddress, "r", cfg.StockServiceAddress, "Stock service base URL")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Auth token lifetime")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&stagedTTLStr, "staged-ttl", stagedTTLStr, "Age after which abandoned staged orders are removed")
	fs.StringVar(&reapIntervalStr, "reap-interval", reapIntervalStr, "Interval between staged order cleanup runs")
	fs.IntVar(&cfg.ReapBatchSize, "reap-batch", cfg.ReapBatchSize, "Maximum staged orders removed per cleanup run")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.StagedOrderTTL, err = time.ParseDuration(stagedTTLStr); err != nil {
		return nil, fmt.Errorf("invalid staged order ttl: %w", err)
	}

	if cfg.ReapInterval, err = time.ParseDuration(reapIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid reap interval: %w", err)
	}

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = string(content)
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.StagedOrderTTL <= 0 {
		cfg.StagedOrderTTL = defaultStagedOrderTTL
	}

	if cfg.ReapInterval <= 0 {
		cfg.ReapInterval = defaultReapInterval
	}

	if cfg.ReapBatchSize <= 0 {
		cfg.ReapBatchSize = defaultReapBatchSize
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
