package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
)

// Config stores runtime configuration for the viewer.
type Config struct {
	AppEnv                       string        `validate:"oneof=dev stage prod"`
	ServiceName                  string        `validate:"required"`
	ServiceVersion               string        `validate:"required"`
	HTTPAddr                     string        `validate:"required"`
	ReadTimeout                  time.Duration `validate:"gt=0"`
	WriteTimeout                 time.Duration `validate:"gt=0"`
	CORSAllowedOrigins           []string      `validate:"min=1,dive,required"`
	SleeperBaseURL               string        `validate:"required,url"`
	SleeperTimeout               time.Duration `validate:"gt=0"`
	SleeperCircuitEnabled        bool
	SleeperCircuitFailureCount   int           `validate:"min=1"`
	SleeperCircuitOpenTimeout    time.Duration `validate:"gt=0"`
	SleeperCircuitHalfOpenMaxReq int           `validate:"min=1"`
	SessionTTL                   time.Duration `validate:"gt=0"`
	FetchWorkers                 int           `validate:"min=1"`
	PprofEnabled                 bool
	PprofAddr                    string `validate:"required_if=PprofEnabled true"`
	UptraceEnabled               bool
	UptraceDSN                   string `validate:"required_if=UptraceEnabled true"`
	PyroscopeEnabled             bool
	PyroscopeServerAddress       string        `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName             string        `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeUploadRate          time.Duration `validate:"gt=0"`
	LogLevel                     logging.Level
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

// LogFormat picks the console encoder for local development.
func (c Config) LogFormat() logging.Format {
	if c.AppEnv == EnvDev {
		return logging.FormatConsole
	}
	return logging.FormatJSON
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var (
		cfg Config
		err error
	)

	cfg.AppEnv = strings.ToLower(strings.TrimSpace(getEnv("APP_ENV", EnvDev)))
	cfg.ServiceName = getEnv("APP_SERVICE_NAME", "sleeper-league-viewer")
	cfg.ServiceVersion = getEnv("APP_SERVICE_VERSION", "dev")
	cfg.HTTPAddr = strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080"))
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	cfg.SleeperBaseURL = strings.TrimRight(strings.TrimSpace(getEnv("SLEEPER_BASE_URL", "https://api.sleeper.app")), "/")
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.LogLevel = logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{key: "APP_READ_TIMEOUT", fallback: "10s", dst: &cfg.ReadTimeout},
		{key: "APP_WRITE_TIMEOUT", fallback: "30s", dst: &cfg.WriteTimeout},
		{key: "SLEEPER_TIMEOUT", fallback: "10s", dst: &cfg.SleeperTimeout},
		{key: "SLEEPER_CIRCUIT_OPEN_TIMEOUT", fallback: "30s", dst: &cfg.SleeperCircuitOpenTimeout},
		{key: "SESSION_TTL", fallback: "30m", dst: &cfg.SessionTTL},
		{key: "PYROSCOPE_UPLOAD_RATE", fallback: "15s", dst: &cfg.PyroscopeUploadRate},
	}
	for _, d := range durations {
		*d.dst, err = time.ParseDuration(getEnv(d.key, d.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
	}

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{key: "SLEEPER_CIRCUIT_FAILURE_COUNT", fallback: 5, dst: &cfg.SleeperCircuitFailureCount},
		{key: "SLEEPER_CIRCUIT_HALF_OPEN_MAX_REQ", fallback: 2, dst: &cfg.SleeperCircuitHalfOpenMaxReq},
		{key: "FETCH_WORKERS", fallback: 64, dst: &cfg.FetchWorkers},
	}
	for _, i := range ints {
		*i.dst, err = getEnvAsInt(i.key, i.fallback)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", i.key, err)
		}
	}

	bools := []struct {
		key      string
		fallback string
		dst      *bool
	}{
		{key: "SLEEPER_CIRCUIT_ENABLED", fallback: "true", dst: &cfg.SleeperCircuitEnabled},
		{key: "PPROF_ENABLED", fallback: "false", dst: &cfg.PprofEnabled},
		{key: "UPTRACE_ENABLED", fallback: "false", dst: &cfg.UptraceEnabled},
		{key: "PYROSCOPE_ENABLED", fallback: "false", dst: &cfg.PyroscopeEnabled},
	}
	for _, b := range bools {
		*b.dst, err = strconv.ParseBool(getEnv(b.key, b.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", b.key, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("invalid config %s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
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

	return strconv.Atoi(value)
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
