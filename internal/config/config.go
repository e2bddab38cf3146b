package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress       string
	DatabaseURI      string
	LogLevel         string
	OracleAddress    string
	OracleAPIKey     string
	OracleModel      string
	OracleTimeout    time.Duration
	EventsURL        string
	EventsExchange   string
	DispatchInterval time.Duration
	DispatchBatch    int
	WorkerPoolSize   int
	ShutdownTimeout  time.Duration
	MaxUploadBytes   int64
}

const (
	defaultRunAddress       = ":8080"
	defaultLogLevel         = "info"
	defaultOracleAddress    = "https://api.openai.com"
	defaultOracleModel      = "gpt-4o-2024-08-06"
	defaultOracleTimeout    = 30 * time.Second
	defaultEventsExchange   = "procurement.events"
	defaultDispatchInterval = 2 * time.Second
	defaultDispatchBatch    = 32
	defaultWorkerPoolSize   = 2
	defaultShutdownTimeout  = 10 * time.Second
	defaultMaxUploadBytes   = 10 << 20
)

// Load parses configuration from flags and environment variables.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:       getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:      getString(lookup, "DATABASE_URI", ""),
		LogLevel:         getString(lookup, "LOG_LEVEL", defaultLogLevel),
		OracleAddress:    getString(lookup, "ORACLE_ADDRESS", defaultOracleAddress),
		OracleAPIKey:     getString(lookup, "OPENAI_API_KEY", ""),
		OracleModel:      getString(lookup, "ORACLE_MODEL", defaultOracleModel),
		OracleTimeout:    getDuration(lookup, "ORACLE_TIMEOUT", defaultOracleTimeout),
		EventsURL:        getString(lookup, "EVENTS_AMQP_URL", ""),
		EventsExchange:   getString(lookup, "EVENTS_EXCHANGE", defaultEventsExchange),
		DispatchInterval: getDuration(lookup, "DISPATCH_INTERVAL", defaultDispatchInterval),
		DispatchBatch:    getInt(lookup, "DISPATCH_BATCH_SIZE", defaultDispatchBatch),
		WorkerPoolSize:   getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		ShutdownTimeout:  getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		MaxUploadBytes:   int64(getInt(lookup, "MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
	}

	fs := flag.NewFlagSet("procurement", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		oracleTimeoutStr    = cfg.OracleTimeout.String()
		dispatchIntervalStr = cfg.DispatchInterval.String()
		shutdownTimeoutStr  = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.OracleAddress, "o", cfg.OracleAddress, "Language model API base URL")
	fs.StringVar(&cfg.OracleAPIKey, "oracle-key", cfg.OracleAPIKey, "Language model API key")
	fs.StringVar(&cfg.OracleModel, "oracle-model", cfg.OracleModel, "Language model name")
	fs.StringVar(&oracleTimeoutStr, "oracle-timeout", oracleTimeoutStr, "Timeout for a single language model call")
	fs.StringVar(&cfg.EventsURL, "events-url", cfg.EventsURL, "AMQP URL for status events")
	fs.StringVar(&cfg.EventsExchange, "events-exchange", cfg.EventsExchange, "AMQP exchange for status events")
	fs.StringVar(&dispatchIntervalStr, "dispatch-interval", dispatchIntervalStr, "Interval between status event polls")
	fs.IntVar(&cfg.DispatchBatch, "dispatch-batch", cfg.DispatchBatch, "Maximum status events per poll")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent event publishers")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "Maximum offer upload size in bytes")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.OracleTimeout, err = time.ParseDuration(oracleTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid oracle timeout: %w", err)
	}

	if cfg.DispatchInterval, err = time.ParseDuration(dispatchIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid dispatch interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if keyFile, ok := lookup("OPENAI_API_KEY_FILE"); ok && keyFile != "" {
		content, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read api key file: %w", err)
		}
		cfg.OracleAPIKey = string(content)
	}
	cfg.OracleAPIKey = cleanAPIKey(cfg.OracleAPIKey)

	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = defaultOracleTimeout
	}

	if cfg.DispatchInterval <= 0 {
		cfg.DispatchInterval = defaultDispatchInterval
	}

	if cfg.DispatchBatch <= 0 {
		cfg.DispatchBatch = defaultDispatchBatch
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

// cleanAPIKey strips whitespace and straight or typographic quotes that
// tend to survive copy and paste into env files.
func cleanAPIKey(raw string) string {
	return strings.Trim(raw, " \t\r\n\"'“”")
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
