package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SecurityConfig - политика безопасности для проверки целей
type SecurityConfig struct {
	RequireConfirmation   bool     `yaml:"require_confirmation"`
	ProtectedPaths        []string `yaml:"protected_paths"`
	RefuseAdminExtensions bool     `yaml:"refuse_admin_extensions"`
}

// ShredConfig - параметры движка уничтожения
type ShredConfig struct {
	RenameIterations      int   `yaml:"rename_iterations"`
	TimestampWindowYears  int   `yaml:"timestamp_window_years"`
	MaxChunkSize          int64 `yaml:"max_chunk_size"`
	ProgressIntervalBytes int64 `yaml:"progress_interval_bytes"`
	KeepFiles             bool  `yaml:"keep_files"`
}

// LoggingConfig - параметры логирования
type LoggingConfig struct {
	Level     string `yaml:"level"`
	File      string `yaml:"file"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// ReportingConfig - параметры JSON отчётов
type ReportingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	LocalPath string `yaml:"local_path"`
}

// Config - конфигурация приложения
type Config struct {
	Security  SecurityConfig  `yaml:"security"`
	Shred     ShredConfig     `yaml:"shred"`
	Logging   LoggingConfig   `yaml:"logging"`
	Reporting ReportingConfig `yaml:"reporting"`
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Security: SecurityConfig{
			RequireConfirmation:   true,
			ProtectedPaths:        []string{},
			RefuseAdminExtensions: true,
		},
		Shred: ShredConfig{
			RenameIterations:      10,
			TimestampWindowYears:  20,
			MaxChunkSize:          16 * 1024 * 1024, // 16MB
			ProgressIntervalBytes: 10 * 1024 * 1024, // каждые 10MB
			KeepFiles:             false,
		},
		Logging: LoggingConfig{
			Level:     "INFO",
			File:      "",
			MaxSizeMB: 100,
			MaxFiles:  5,
		},
		Reporting: ReportingConfig{
			Enabled:   false,
			LocalPath: "./reports",
		},
	}
}

// Load загружает конфигурацию из файла
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию на валидность
func Validate(config *Config) error {
	if config.Shred.RenameIterations < 1 || config.Shred.RenameIterations > 100 {
		return fmt.Errorf("rename iterations must be between 1 and 100, got %d", config.Shred.RenameIterations)
	}

	if config.Shred.TimestampWindowYears < 1 || config.Shred.TimestampWindowYears > 50 {
		return fmt.Errorf("timestamp window must be between 1 and 50 years, got %d", config.Shred.TimestampWindowYears)
	}

	if config.Shred.MaxChunkSize < 4*1024 {
		return fmt.Errorf("max chunk size too small (min 4KB), got %d", config.Shred.MaxChunkSize)
	}
	if config.Shred.MaxChunkSize > 256*1024*1024 { // 256MB max
		return fmt.Errorf("max chunk size too large (max 256MB), got %d", config.Shred.MaxChunkSize)
	}

	if config.Shred.ProgressIntervalBytes <= 0 {
		return fmt.Errorf("progress interval must be positive, got %d", config.Shred.ProgressIntervalBytes)
	}

	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[config.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if config.Logging.MaxSizeMB <= 0 || config.Logging.MaxSizeMB > 1000 {
		return fmt.Errorf("log max size must be between 1MB and 1000MB, got %d", config.Logging.MaxSizeMB)
	}

	if config.Logging.MaxFiles <= 0 || config.Logging.MaxFiles > 50 {
		return fmt.Errorf("log max files must be between 1 and 50, got %d", config.Logging.MaxFiles)
	}

	// Валидация дополнительных защищённых путей
	for _, path := range config.Security.ProtectedPaths {
		if path == "" {
			return fmt.Errorf("empty protected path")
		}

		cleaned := filepath.Clean(path)
		if cleaned == "" || cleaned == "." {
			return fmt.Errorf("invalid protected path: %s", path)
		}
	}

	return nil
}

// Save сохраняет конфигурацию в файл
func Save(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
