package config

import (
	"fmt"
)

// ApplyProfile применяет профиль производительности к конфигурации.
// Количество проходов расписания профили не меняют - оно зафиксировано
// контрактом метода.
func ApplyProfile(cfg *Config, profile string) error {
	switch profile {
	case "careful":
		cfg.Shred.MaxChunkSize = 1 * 1024 * 1024 // 1MB
		cfg.Shred.ProgressIntervalBytes = 1 * 1024 * 1024
		cfg.Shred.RenameIterations = 20
	case "standard":
		cfg.Shred.MaxChunkSize = 16 * 1024 * 1024 // 16MB
		cfg.Shred.ProgressIntervalBytes = 10 * 1024 * 1024
		cfg.Shred.RenameIterations = 10
	case "fast":
		cfg.Shred.MaxChunkSize = 64 * 1024 * 1024 // 64MB
		cfg.Shred.ProgressIntervalBytes = 50 * 1024 * 1024
		cfg.Shred.RenameIterations = 3
	default:
		return fmt.Errorf("неизвестный профиль: %s", profile)
	}
	return nil
}
