// Package config provides YAML-based engine configuration loading.
package config

// Config contains all engine configuration.
type Config struct {
	Savegame SavegameConfig `yaml:"savegame"`
	Levels   LevelsConfig   `yaml:"levels"`
	Console  ConsoleConfig  `yaml:"console"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SavegameConfig locates slot storage.
type SavegameConfig struct {
	// Database is the SQLite file holding the save slots. Supports a
	// leading ~ for the home directory.
	Database string `yaml:"database"`
}

// LevelsConfig locates level definitions.
type LevelsConfig struct {
	// Dir is the directory searched for level files given by bare name.
	Dir string `yaml:"dir"`
}

// ConsoleConfig tunes the interactive script console.
type ConsoleConfig struct {
	HistorySize int    `yaml:"history_size"`
	Prompt      string `yaml:"prompt"`
}

// LoggingConfig tunes the engine logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
}
