package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "rotation_editor.cfg.json"

// ErrNotFound means no config file exists; defaults are in effect.
var ErrNotFound = errors.New("config file not found")

// StorageConfig selects the override store.
type StorageConfig struct {
	Type string `json:"type" mapstructure:"type"`
}

// EditorConfig holds session settings.
type EditorConfig struct {
	StartRotation string  `json:"startRotation" mapstructure:"startRotation"`
	PathThreshold float64 `json:"pathThreshold" mapstructure:"pathThreshold"`
	PositionsFile string  `json:"positionsFile" mapstructure:"positionsFile"`
}

// ExportConfig holds clipboard delivery settings.
type ExportConfig struct {
	ClipboardCommands []string `json:"clipboardCommands" mapstructure:"clipboardCommands"`
}

// OTelConfig holds metrics export settings.
type OTelConfig struct {
	Enabled        bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName    string        `json:"serviceName" mapstructure:"serviceName"`
	ExportInterval time.Duration `json:"exportInterval" mapstructure:"exportInterval"`
}

// Load sets defaults and reads the JSON config file from configDir.
// A missing file returns an error wrapping ErrNotFound; defaults still apply.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("storage.type", "memory")

	viper.SetDefault("editor.startRotation", "L1")
	viper.SetDefault("editor.pathThreshold", 5.0)
	viper.SetDefault("editor.positionsFile", "")

	viper.SetDefault("players", map[string]string{})

	viper.SetDefault("export.clipboardCommands", []string{"wl-copy", "xclip -selection clipboard", "pbcopy"})

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "rotation-editor")
	viper.SetDefault("otel.exportInterval", "30s")

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%w in %s", ErrNotFound, configDir)
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetStorageConfig returns the storage settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{Type: viper.GetString("storage.type")}
}

// GetEditorConfig returns the session settings.
func GetEditorConfig() EditorConfig {
	return EditorConfig{
		StartRotation: viper.GetString("editor.startRotation"),
		PathThreshold: viper.GetFloat64("editor.pathThreshold"),
		PositionsFile: viper.GetString("editor.positionsFile"),
	}
}

// GetExportConfig returns the export settings.
func GetExportConfig() ExportConfig {
	return ExportConfig{ClipboardCommands: viper.GetStringSlice("export.clipboardCommands")}
}

// GetOTelConfig returns the metrics settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:        viper.GetBool("otel.enabled"),
		ServiceName:    viper.GetString("otel.serviceName"),
		ExportInterval: viper.GetDuration("otel.exportInterval"),
	}
}

// GetRoster returns the configured player names keyed by role tag.
// Viper lower-cases map keys, so tags are upper-cased again here.
func GetRoster() map[string]string {
	raw := viper.GetStringMapString("players")
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == "" {
			continue
		}
		out[strings.ToUpper(k)] = v
	}
	return out
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}
