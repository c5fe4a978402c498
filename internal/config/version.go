package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CurrentVersion is the current config schema version
const CurrentVersion = 2

// Identifiers given to settings carried over from a single-model config
const (
	LegacyModelID  = "model_legacy"
	LegacyPromptID = "prompt_legacy"
)

// VersionedConfig wraps a Config with a version field for migrations
type VersionedConfig struct {
	Version int     `json:"version"`
	Config  *Config `json:"config,omitempty"`
}

// Migration represents a config migration function
type Migration struct {
	FromVersion int
	ToVersion   int
	Migrate     func(data map[string]interface{}) (map[string]interface{}, error)
}

// migrations is the list of migrations in order
var migrations = []Migration{
	// Migration 0 -> 1: Add version field, no structural changes
	{
		FromVersion: 0,
		ToVersion:   1,
		Migrate: func(data map[string]interface{}) (map[string]interface{}, error) {
			data["version"] = 1
			return data, nil
		},
	},
	// Migration 1 -> 2: single-model flat settings become a models list
	{
		FromVersion: 1,
		ToVersion:   2,
		Migrate:     migrateLegacyModel,
	},
}

func migrateLegacyModel(data map[string]interface{}) (map[string]interface{}, error) {
	endpoint, _ := data["endpointUrl"].(string)
	modelName, _ := data["modelName"].(string)
	apiKey, _ := data["apiKey"].(string)
	prompt, _ := data["customPrompt"].(string)
	for _, k := range []string{"endpointUrl", "modelName", "apiKey", "customPrompt"} {
		delete(data, k)
	}

	if endpoint != "" {
		models, _ := data["models"].([]interface{})
		models = append(models, map[string]interface{}{
			"id":          LegacyModelID,
			"name":        modelName,
			"endpointUrl": endpoint,
			"modelName":   modelName,
			"apiKey":      apiKey,
		})
		data["models"] = models
		if id, _ := data["defaultModelId"].(string); id == "" {
			data["defaultModelId"] = LegacyModelID
		}
	}

	if p := strings.TrimSpace(prompt); p != "" && p != DefaultPrompt {
		prompts, _ := data["customPrompts"].([]interface{})
		prompts = append(prompts, map[string]interface{}{
			"id":      LegacyPromptID,
			"name":    "Custom Prompt",
			"content": p,
		})
		data["customPrompts"] = prompts
		if id, _ := data["defaultPromptId"].(string); id == "" {
			data["defaultPromptId"] = LegacyPromptID
		}
	}

	// backup exports keep these two at the top level
	backup, _ := data["backup"].(map[string]interface{})
	if backup == nil {
		backup = map[string]interface{}{}
	}
	if v, ok := data["backupReminderFrequency"]; ok {
		backup["reminderFrequencyDays"] = v
		delete(data, "backupReminderFrequency")
	}
	if v, ok := data["backupSubfolder"]; ok {
		backup["subfolder"] = v
		delete(data, "backupSubfolder")
	}
	if len(backup) > 0 {
		data["backup"] = backup
	}

	data["version"] = 2
	return data, nil
}

// ParseVersionedConfig parses config data with version migration support
func ParseVersionedConfig(data []byte) (*Config, error) {
	// First, parse as raw JSON to get version
	var rawConfig map[string]interface{}
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Detect version (0 if not present = legacy config)
	version := 0
	if v, ok := rawConfig["version"].(float64); ok {
		version = int(v)
	}

	// Check for future version
	if version > CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", version, CurrentVersion)
	}

	// Apply migrations if needed
	if version < CurrentVersion {
		var err error
		rawConfig, err = ApplyMigrations(rawConfig, version)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate config: %w", err)
		}
	}

	// Re-marshal and unmarshal to get proper types
	migratedData, err := json.Marshal(rawConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal migrated config: %w", err)
	}

	// Try parsing as versioned config (with nested config field)
	var versioned VersionedConfig
	if err := json.Unmarshal(migratedData, &versioned); err != nil {
		return nil, fmt.Errorf("failed to parse versioned config: %w", err)
	}
	if versioned.Config != nil {
		return versioned.Config, nil
	}

	// Otherwise, parse as flat config
	var cfg Config
	if err := json.Unmarshal(migratedData, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flat config: %w", err)
	}

	return &cfg, nil
}

// ApplyMigrations applies all migrations from the given version to CurrentVersion
func ApplyMigrations(data map[string]interface{}, fromVersion int) (map[string]interface{}, error) {
	for _, migration := range migrations {
		if migration.FromVersion == fromVersion {
			var err error
			data, err = migration.Migrate(data)
			if err != nil {
				return nil, fmt.Errorf("migration %d -> %d failed: %w",
					migration.FromVersion, migration.ToVersion, err)
			}
			fromVersion = migration.ToVersion
		}
	}

	if fromVersion < CurrentVersion {
		return nil, fmt.Errorf("no migration path from version %d to %d", fromVersion, CurrentVersion)
	}

	return data, nil
}

// MarshalVersionedConfig serializes a config as a flat object with a version field
func MarshalVersionedConfig(cfg *Config) ([]byte, error) {
	cfgData, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	var cfgMap map[string]interface{}
	if err := json.Unmarshal(cfgData, &cfgMap); err != nil {
		return nil, err
	}
	cfgMap["version"] = CurrentVersion

	return json.MarshalIndent(cfgMap, "", "  ")
}
