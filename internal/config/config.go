package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/nation-points/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                 string
	ServiceName            string
	ServiceVersion         string
	HTTPAddr               string
	ReadTimeout            time.Duration
	WriteTimeout           time.Duration
	ShutdownTimeout        time.Duration
	CORSAllowedOrigins     []string
	LogLevel               logging.Level
	SwaggerEnabled         bool
	FeedBaseURL            string
	FeedUserAgent          string
	FeedTimeout            time.Duration
	FeedMaxRetries         int
	FeedRateLimit          float64
	FeedRateBurst          int
	FeedCircuitEnabled     bool
	FeedCircuitFailures    int
	FeedCircuitOpenTimeout time.Duration
	FeedCircuitHalfOpenMax int
	BatchWorkers           int
	BatchMaxEvents         int
	MetricsEnabled         bool
	MetricsLatencyBuckets  []float64
	PprofEnabled           bool
	PprofAddr              string
	UptraceEnabled         bool
	UptraceDSN             string
	UptraceLogsEnabled     bool
	PyroscopeEnabled       bool
	PyroscopeServerAddress string
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	swaggerDefault := true
	if appEnv == EnvProd {
		swaggerDefault = false
	}
	swaggerEnabled, err := getEnvAsBool("SWAGGER_ENABLED", swaggerDefault)
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", "60s")
	if err != nil {
		return Config{}, err
	}
	shutdownTimeout, err := getEnvAsDuration("APP_SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}

	feedBaseURL := strings.TrimRight(strings.TrimSpace(getEnv("FEED_BASE_URL", "https://afeeds.orf.at/alpine-api/api")), "/")
	if err := validateHTTPURL(feedBaseURL); err != nil {
		return Config{}, fmt.Errorf("parse FEED_BASE_URL: %w", err)
	}
	feedTimeout, err := getEnvAsDuration("FEED_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	feedMaxRetries, err := getEnvAsInt("FEED_MAX_RETRIES", 0)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_MAX_RETRIES: %w", err)
	}
	if feedMaxRetries < 0 {
		return Config{}, fmt.Errorf("FEED_MAX_RETRIES must be >= 0")
	}
	feedRateLimit, err := getEnvAsFloat("FEED_RATE_LIMIT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_RATE_LIMIT: %w", err)
	}
	if feedRateLimit < 0 {
		return Config{}, fmt.Errorf("FEED_RATE_LIMIT must be >= 0")
	}
	feedRateBurst, err := getEnvAsInt("FEED_RATE_BURST", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_RATE_BURST: %w", err)
	}
	if feedRateBurst < 1 {
		return Config{}, fmt.Errorf("FEED_RATE_BURST must be >= 1")
	}

	feedCircuitEnabled, err := getEnvAsBool("FEED_CIRCUIT_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	feedCircuitFailures, err := getEnvAsInt("FEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if feedCircuitFailures < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	feedCircuitOpenTimeout, err := getEnvAsDuration("FEED_CIRCUIT_OPEN_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	feedCircuitHalfOpenMax, err := getEnvAsInt("FEED_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse FEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if feedCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("FEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	batchWorkers, err := getEnvAsInt("BATCH_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse BATCH_WORKERS: %w", err)
	}
	if batchWorkers < 1 {
		return Config{}, fmt.Errorf("BATCH_WORKERS must be >= 1")
	}
	batchMaxEvents, err := getEnvAsInt("BATCH_MAX_EVENTS", 20)
	if err != nil {
		return Config{}, fmt.Errorf("parse BATCH_MAX_EVENTS: %w", err)
	}
	if batchMaxEvents < 1 {
		return Config{}, fmt.Errorf("BATCH_MAX_EVENTS must be >= 1")
	}

	metricsEnabled, err := getEnvAsBool("METRICS_ENABLED", true)
	if err != nil {
		return Config{}, err
	}
	latencyBuckets, err := parseBuckets(getEnv("METRICS_LATENCY_BUCKETS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse METRICS_LATENCY_BUCKETS: %w", err)
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	uptraceLogsEnabled, err := getEnvAsBool("UPTRACE_LOGS_ENABLED", false)
	if err != nil {
		return Config{}, err
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", false)
	if err != nil {
		return Config{}, err
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            getEnv("APP_SERVICE_NAME", "nation-points-api"),
		ServiceVersion:         getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:               getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:            readTimeout,
		WriteTimeout:           writeTimeout,
		ShutdownTimeout:        shutdownTimeout,
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:               logLevel,
		SwaggerEnabled:         swaggerEnabled,
		FeedBaseURL:            feedBaseURL,
		FeedUserAgent:          strings.TrimSpace(getEnv("FEED_USER_AGENT", "")),
		FeedTimeout:            feedTimeout,
		FeedMaxRetries:         feedMaxRetries,
		FeedRateLimit:          feedRateLimit,
		FeedRateBurst:          feedRateBurst,
		FeedCircuitEnabled:     feedCircuitEnabled,
		FeedCircuitFailures:    feedCircuitFailures,
		FeedCircuitOpenTimeout: feedCircuitOpenTimeout,
		FeedCircuitHalfOpenMax: feedCircuitHalfOpenMax,
		BatchWorkers:           batchWorkers,
		BatchMaxEvents:         batchMaxEvents,
		MetricsEnabled:         metricsEnabled,
		MetricsLatencyBuckets:  latencyBuckets,
		PprofEnabled:           pprofEnabled,
		PprofAddr:              pprofAddr,
		UptraceEnabled:         uptraceEnabled,
		UptraceDSN:             uptraceDSN,
		UptraceLogsEnabled:     uptraceLogsEnabled,
		PyroscopeEnabled:       pyroscopeEnabled,
		PyroscopeServerAddress: pyroscopeServerAddress,
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:    pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	return strconv.ParseFloat(value, 64)
}

func getEnvAsBool(key string, fallback bool) (bool, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	out, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getEnvAsDuration rejects zero and negative durations.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func validateHTTPURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%q uses unsupported scheme %q; expected http or https", raw, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return fmt.Errorf("%q has empty host", raw)
	}
	return nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseBuckets reads comma separated histogram bounds in seconds. Empty keeps
// the Prometheus defaults.
func parseBuckets(raw string) ([]float64, error) {
	items := splitCSV(raw)
	if len(items) == 0 {
		return nil, nil
	}

	out := make([]float64, 0, len(items))
	for _, item := range items {
		bound, err := strconv.ParseFloat(item, 64)
		if err != nil {
			return nil, err
		}
		if bound <= 0 {
			return nil, fmt.Errorf("bucket %v must be > 0", bound)
		}
		if n := len(out); n > 0 && bound <= out[n-1] {
			return nil, fmt.Errorf("buckets must be strictly increasing, got %v after %v", bound, out[n-1])
		}
		out = append(out, bound)
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
