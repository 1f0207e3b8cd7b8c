package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageBackend selects where split cells are written
type StorageBackend string

const (
	StorageLocal StorageBackend = "local"
	StorageAzure StorageBackend = "azure"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	ImageFetchTimeout  time.Duration
	AnalysisTimeout    time.Duration
	MaxRequestBodySize int64

	// AllowedSheetHosts restricts sheet URLs to these hosts; empty allows
	// any host. An entry starting with "." matches subdomains.
	AllowedSheetHosts []string

	StorageBackend StorageBackend
	OutputDir      string
	OutputFormat   string

	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string

	MaxWorkers       int
	PreviewMaxWidth  int
	PreviewMaxHeight int
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		ImageFetchTimeout:  parseDurationOrDefault("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		AnalysisTimeout:    parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 32*1024*1024), // 32MB
		AllowedSheetHosts:  parseList(os.Getenv("ALLOWED_SHEET_HOSTS")),

		StorageBackend: StorageBackend(strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", string(StorageLocal)))),
		OutputDir:      getEnvOrDefault("OUTPUT_DIR", "sprites"),
		OutputFormat:   strings.ToLower(getEnvOrDefault("OUTPUT_FORMAT", "png")),

		AzureAccountName: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureAccountKey:  os.Getenv("AZURE_STORAGE_KEY"),
		AzureContainer:   getEnvOrDefault("AZURE_STORAGE_CONTAINER", "sprites"),

		MaxWorkers:       int(parseIntOrDefault("MAX_WORKERS", 0)),
		PreviewMaxWidth:  int(parseIntOrDefault("PREVIEW_MAX_WIDTH", 1000)),
		PreviewMaxHeight: int(parseIntOrDefault("PREVIEW_MAX_HEIGHT", 600)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values LoadFromEnv cannot default safely
func (c *Config) Validate() error {
	// Validate port is numeric and in range
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", c.MaxRequestBodySize)
	}
	if c.RequestTimeout <= 0 || c.ImageFetchTimeout <= 0 || c.AnalysisTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, analysis=%s)",
			c.RequestTimeout, c.ImageFetchTimeout, c.AnalysisTimeout)
	}
	switch c.StorageBackend {
	case StorageLocal:
		if strings.TrimSpace(c.OutputDir) == "" {
			return fmt.Errorf("OUTPUT_DIR must not be empty")
		}
	case StorageAzure:
		if c.AzureAccountName == "" || c.AzureAccountKey == "" {
			return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY are required for the azure backend")
		}
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND: %q", c.StorageBackend)
	}
	if c.MaxWorkers < 0 {
		return fmt.Errorf("MAX_WORKERS must be >= 0 (got %d)", c.MaxWorkers)
	}
	if c.PreviewMaxWidth <= 0 || c.PreviewMaxHeight <= 0 {
		return fmt.Errorf("preview bounds must be > 0 (got %dx%d)", c.PreviewMaxWidth, c.PreviewMaxHeight)
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

// parseList splits a comma separated value, dropping blank entries
func parseList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
