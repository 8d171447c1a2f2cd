package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// Default returns the built-in engine configuration.
func Default() Config {
	return Config{
		Savegame: SavegameConfig{
			Database: "~/.kumo/saves.db",
		},
		Levels: LevelsConfig{
			Dir: "levels",
		},
		Console: ConsoleConfig{
			HistorySize: 200,
			Prompt:      "> ",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file, used by
// tooling that writes a starter config for the user.
func DefaultYAML() []byte {
	return defaultEngineYAML
}
