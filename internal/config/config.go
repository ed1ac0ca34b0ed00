// Package config provides configuration management for comparison dispatch
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for comparison operations
type Config struct {
	// Parallel Processing Configuration
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold"` // Minimum rows to trigger a chunked parallel scan
	WorkerPoolSize    int `json:"worker_pool_size" yaml:"worker_pool_size"`     // Number of worker goroutines (0 = auto-detect)
	ChunkSize         int `json:"chunk_size" yaml:"chunk_size"`                 // Rows per chunk (0 = auto-calculate)
	MaxParallelism    int `json:"max_parallelism" yaml:"max_parallelism"`       // Upper bound on chunks in flight

	// Observability Configuration
	MetricsCollection bool   `json:"metrics_collection" yaml:"metrics_collection"` // Enable in-process metrics collection
	VerboseLogging    bool   `json:"verbose_logging" yaml:"verbose_logging"`       // Log dispatch decisions at debug level
	LogFormat         string `json:"log_format" yaml:"log_format"`                 // "text" or "json"
}

// SystemInfo contains system information for configuration validation
type SystemInfo struct {
	CPUCount     int
	Architecture string
	OSType       string
}

// ConfigValidator validates and provides recommendations for configuration
type ConfigValidator struct {
	systemInfo SystemInfo
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultParallelThreshold = 64 * 1024
	DefaultMaxParallelism    = 16
	DefaultLogFormat         = "text"

	// MinChunkSize bounds auto-calculated chunks so tiny slices are not scheduled.
	MinChunkSize = 4096

	envPrefix = "RELCMP_"
)

// Initialize global configuration with defaults
func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		ParallelThreshold: DefaultParallelThreshold,
		WorkerPoolSize:    0, // Auto-detect
		ChunkSize:         0, // Auto-calculate
		MaxParallelism:    DefaultMaxParallelism,

		MetricsCollection: false,
		VerboseLogging:    false,
		LogFormat:         DefaultLogFormat,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.ParallelThreshold <= 0 {
		return fmt.Errorf("ParallelThreshold must be positive, got %d", c.ParallelThreshold)
	}

	if c.WorkerPoolSize < 0 {
		return fmt.Errorf("WorkerPoolSize must be non-negative, got %d", c.WorkerPoolSize)
	}

	if c.ChunkSize < 0 {
		return fmt.Errorf("ChunkSize must be non-negative, got %d", c.ChunkSize)
	}

	if c.MaxParallelism <= 0 {
		return fmt.Errorf("MaxParallelism must be positive, got %d", c.MaxParallelism)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LogFormat must be text or json, got %q", c.LogFormat)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.ParallelThreshold == 0 {
		c.ParallelThreshold = defaults.ParallelThreshold
	}
	if c.MaxParallelism == 0 {
		c.MaxParallelism = defaults.MaxParallelism
	}
	if c.LogFormat == "" {
		c.LogFormat = defaults.LogFormat
	}

	// WorkerPoolSize and ChunkSize keep 0 as "auto".
	// Boolean fields are left as given so an explicit false survives.

	return c
}

// Workers returns the effective worker count
func (c Config) Workers() int {
	if c.WorkerPoolSize > 0 {
		return c.WorkerPoolSize
	}
	return runtime.NumCPU()
}

// EffectiveChunkSize returns the chunk size to use for n rows
func (c Config) EffectiveChunkSize(n int) int {
	if c.ChunkSize > 0 {
		return c.ChunkSize
	}
	parts := min(c.Workers(), max(c.MaxParallelism, 1))
	size := (n + parts - 1) / parts
	return max(size, MinChunkSize)
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromYAML loads configuration from YAML data
func LoadFromYAML(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing YAML configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a file (supports JSON and YAML)
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		config, err = LoadFromJSON(data)
	case ".yaml", ".yml":
		config, err = LoadFromYAML(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from RELCMP_* environment variables on top of defaults
func LoadFromEnv() Config {
	return ApplyEnv(NewConfig())
}

// ApplyEnv overrides fields of config with RELCMP_* environment variables.
// Unparseable values are ignored.
func ApplyEnv(config Config) Config {
	if val := os.Getenv(envPrefix + "PARALLEL_THRESHOLD"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.ParallelThreshold = parsed
		}
	}

	if val := os.Getenv(envPrefix + "WORKER_POOL_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.WorkerPoolSize = parsed
		}
	}

	if val := os.Getenv(envPrefix + "CHUNK_SIZE"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.ChunkSize = parsed
		}
	}

	if val := os.Getenv(envPrefix + "MAX_PARALLELISM"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			config.MaxParallelism = parsed
		}
	}

	if val := os.Getenv(envPrefix + "METRICS_COLLECTION"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.MetricsCollection = parsed
		}
	}

	if val := os.Getenv(envPrefix + "VERBOSE_LOGGING"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.VerboseLogging = parsed
		}
	}

	if val := os.Getenv(envPrefix + "LOG_FORMAT"); val != "" {
		config.LogFormat = strings.ToLower(val)
	}

	return config
}

// GetSystemInfo returns system information for configuration validation
func GetSystemInfo() SystemInfo {
	return SystemInfo{
		CPUCount:     runtime.NumCPU(),
		Architecture: runtime.GOARCH,
		OSType:       runtime.GOOS,
	}
}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		systemInfo: GetSystemInfo(),
	}
}

// Validate validates a configuration and provides recommendations
func (cv *ConfigValidator) Validate(config Config) (Config, []string, error) {
	var warnings []string
	validated := config

	if err := config.Validate(); err != nil {
		return Config{}, warnings, err
	}

	if config.WorkerPoolSize > cv.systemInfo.CPUCount*2 {
		warnings = append(warnings,
			fmt.Sprintf("Worker pool size (%d) exceeds 2x CPU count (%d), may cause contention",
				config.WorkerPoolSize, cv.systemInfo.CPUCount))
	}

	if config.ChunkSize > 0 && config.ChunkSize < MinChunkSize {
		warnings = append(warnings,
			fmt.Sprintf("Chunk size (%d) is below %d rows, scheduling overhead may dominate",
				config.ChunkSize, MinChunkSize))
	}

	if config.WorkerPoolSize == 0 {
		validated.WorkerPoolSize = cv.systemInfo.CPUCount
		warnings = append(warnings,
			fmt.Sprintf("Auto-setting worker pool size to %d (CPU count)",
				validated.WorkerPoolSize))
	}

	return validated, warnings, nil
}
