package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied before the config file and the environment.
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = "8080"
	DefaultRequestTimeout = 60 * time.Second
	DefaultFetchTimeout   = 30 * time.Second
	DefaultMaxUploadSize  = 16 * 1024 * 1024 // 16MB
	DefaultRawDeveloper   = "dcraw"
	DefaultLogLevel       = "info"
)

// Config holds the settings shared by the HTTP server and the CLI.
type Config struct {
	Host           string        `yaml:"host,omitempty"`
	Port           string        `yaml:"port,omitempty"`
	RequestTimeout time.Duration `yaml:"request_timeout,omitempty"`
	FetchTimeout   time.Duration `yaml:"fetch_timeout,omitempty"`
	MaxUploadSize  int64         `yaml:"max_upload_size,omitempty"`
	UploadDir      string        `yaml:"upload_dir,omitempty"`
	RawDeveloper   string        `yaml:"raw_developer,omitempty"`
	Workers        int           `yaml:"workers,omitempty"`
	LogLevel       string        `yaml:"log_level,omitempty"`

	// AllowedSourceHosts restricts remote sources; empty allows any host.
	AllowedSourceHosts []string `yaml:"allowed_source_hosts,omitempty"`

	AzureStorageAccount string `yaml:"azure_storage_account,omitempty"`
	AzureStorageKey     string `yaml:"-"`
}

// New returns a Config populated with the defaults.
func New() *Config {
	return &Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		RequestTimeout: DefaultRequestTimeout,
		FetchTimeout:   DefaultFetchTimeout,
		MaxUploadSize:  DefaultMaxUploadSize,
		UploadDir:      os.TempDir(),
		RawDeveloper:   DefaultRawDeveloper,
		LogLevel:       DefaultLogLevel,
	}
}

func (c *Config) ServerAddress() string {
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob credentials are configured.
func (c *Config) AzureEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

// Load builds the configuration from defaults, the YAML file named by
// CONFIG_FILE (if set), and environment overrides, in that order.
func Load() (*Config, error) {
	cfg := New()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv is Load without a config file.
func LoadFromEnv() (*Config, error) {
	cfg := New()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %q not found: %w", path, err)
		}
		return fmt.Errorf("reading config file %q: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file %q: %w", path, err)
	}

	if fileCfg.Host != "" {
		c.Host = fileCfg.Host
	}
	if fileCfg.Port != "" {
		c.Port = fileCfg.Port
	}
	if fileCfg.RequestTimeout != 0 {
		c.RequestTimeout = fileCfg.RequestTimeout
	}
	if fileCfg.FetchTimeout != 0 {
		c.FetchTimeout = fileCfg.FetchTimeout
	}
	if fileCfg.MaxUploadSize != 0 {
		c.MaxUploadSize = fileCfg.MaxUploadSize
	}
	if fileCfg.UploadDir != "" {
		c.UploadDir = fileCfg.UploadDir
	}
	if fileCfg.RawDeveloper != "" {
		c.RawDeveloper = fileCfg.RawDeveloper
	}
	if fileCfg.Workers != 0 {
		c.Workers = fileCfg.Workers
	}
	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}
	if len(fileCfg.AllowedSourceHosts) > 0 {
		c.AllowedSourceHosts = fileCfg.AllowedSourceHosts
	}
	if fileCfg.AzureStorageAccount != "" {
		c.AzureStorageAccount = fileCfg.AzureStorageAccount
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Host = getEnvOrDefault("HOST", c.Host)
	c.Port = getEnvOrDefault("PORT", c.Port)
	c.RequestTimeout = parseDurationOrDefault("REQUEST_TIMEOUT", c.RequestTimeout)
	c.FetchTimeout = parseDurationOrDefault("FETCH_TIMEOUT", c.FetchTimeout)
	c.MaxUploadSize = parseIntOrDefault("MAX_UPLOAD_SIZE", c.MaxUploadSize)
	c.UploadDir = getEnvOrDefault("UPLOAD_DIR", c.UploadDir)
	c.RawDeveloper = getEnvOrDefault("RAW_DEVELOPER", c.RawDeveloper)
	c.Workers = int(parseIntOrDefault("ASSESS_WORKERS", int64(c.Workers)))
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.AzureStorageAccount = getEnvOrDefault("AZURE_STORAGE_ACCOUNT", c.AzureStorageAccount)
	c.AzureStorageKey = getEnvOrDefault("AZURE_STORAGE_KEY", c.AzureStorageKey)

	if hosts := os.Getenv("ALLOWED_SOURCE_HOSTS"); hosts != "" {
		c.AllowedSourceHosts = nil
		for _, h := range strings.Split(hosts, ",") {
			if h = strings.TrimSpace(h); h != "" {
				c.AllowedSourceHosts = append(c.AllowedSourceHosts, h)
			}
		}
	}
}

// Validate checks the port range and that sizes and timeouts are positive.
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", c.MaxUploadSize)
	}
	if c.RequestTimeout <= 0 || c.FetchTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s)",
			c.RequestTimeout, c.FetchTimeout)
	}
	if c.Workers < 0 {
		return fmt.Errorf("ASSESS_WORKERS must be >= 0 (got %d)", c.Workers)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
