package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the full infopedia configuration
type Config struct {
	Models          []ModelConfig  `json:"models"`
	DefaultModelID  string         `json:"defaultModelId"`
	CustomPrompts   []PromptConfig `json:"customPrompts"`
	DefaultPromptID string         `json:"defaultPromptId"`
	TTS             TTSConfig      `json:"ttsSettings"`
	Backup          BackupConfig   `json:"backup"`
	Overlay         OverlayConfig  `json:"overlay"`
	Request         RequestConfig  `json:"request"`
	Network         NetworkConfig  `json:"network"`
	DataDir         string         `json:"dataDir"`
	LogDir          string         `json:"logDir"`
}

// ModelConfig is one OpenAI-compatible chat completion endpoint
type ModelConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	EndpointURL string `json:"endpointUrl"`
	ModelName   string `json:"modelName"`
	APIKey      string `json:"apiKey"`
}

// PromptConfig is a user prompt template; {word} is replaced by the selection
type PromptConfig struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

// TTSConfig contains speech settings
type TTSConfig struct {
	Rate    float64 `json:"rate"`
	Voice   string  `json:"voice"`
	Command string  `json:"command"`
}

// BackupConfig contains backup export settings
type BackupConfig struct {
	ReminderFrequencyDays int    `json:"reminderFrequencyDays"`
	Subfolder             string `json:"subfolder"`
	Dir                   string `json:"dir"`
	Notify                bool   `json:"notify"`
}

// OverlayConfig contains overlay behaviour settings
type OverlayConfig struct {
	MaxWords       int  `json:"maxWords"`
	Margin         int  `json:"margin"`
	NoListsDelayMs int  `json:"noListsDelayMs"`
	MaxWidth       int  `json:"maxWidth"`
	ClampBottom    bool `json:"clampBottom"`
	BaseZ          int  `json:"baseZ"`
}

// RequestConfig contains collaborator request settings
type RequestConfig struct {
	TimeoutMs int `json:"timeoutMs"`
}

// NetworkConfig contains endpoint reachability settings
type NetworkConfig struct {
	CheckInterval int `json:"checkInterval"`
	CheckTimeout  int `json:"checkTimeout"`
}

// DefaultPrompt is used when no custom prompt applies
const DefaultPrompt = "Explain the following word or concept in a concise paragraph: {word}"

// DefaultDir returns the directory holding config, data and logs
func DefaultDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".infopedia")
}

// DefaultPath returns the default config file path
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.json")
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	dir := DefaultDir()

	return &Config{
		Models:        []ModelConfig{},
		CustomPrompts: []PromptConfig{},
		TTS: TTSConfig{
			Rate: 1.0,
		},
		Backup: BackupConfig{
			ReminderFrequencyDays: 0, // disabled
			Dir:                   filepath.Join(dir, "backups"),
			Notify:                true,
		},
		Overlay: OverlayConfig{
			MaxWords:       6,
			Margin:         1,
			NoListsDelayMs: 2500,
			MaxWidth:       48,
			ClampBottom:    false,
			BaseZ:          2100000000,
		},
		Request: RequestConfig{
			TimeoutMs: 60000,
		},
		Network: NetworkConfig{
			CheckInterval: 60, // 1 minute
			CheckTimeout:  5,
		},
		DataDir: dir,
		LogDir:  filepath.Join(dir, "logs"),
	}
}

// LoadConfig loads configuration from path with version migration support.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := ParseVersionedConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return MergeWithDefaults(cfg), nil
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// the file holds API keys
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.Models == nil {
		cfg.Models = defaults.Models
	}
	if cfg.CustomPrompts == nil {
		cfg.CustomPrompts = defaults.CustomPrompts
	}

	// Merge TTS config
	if cfg.TTS.Rate == 0 {
		cfg.TTS.Rate = defaults.TTS.Rate
	}


	// Merge Overlay config
	if cfg.Overlay.MaxWords == 0 {
		cfg.Overlay.MaxWords = defaults.Overlay.MaxWords
	}
	if cfg.Overlay.Margin == 0 {
		cfg.Overlay.Margin = defaults.Overlay.Margin
	}
	if cfg.Overlay.NoListsDelayMs == 0 {
		cfg.Overlay.NoListsDelayMs = defaults.Overlay.NoListsDelayMs
	}
	if cfg.Overlay.MaxWidth == 0 {
		cfg.Overlay.MaxWidth = defaults.Overlay.MaxWidth
	}
	if cfg.Overlay.BaseZ == 0 {
		cfg.Overlay.BaseZ = defaults.Overlay.BaseZ
	}

	// Merge Request config
	if cfg.Request.TimeoutMs == 0 {
		cfg.Request.TimeoutMs = defaults.Request.TimeoutMs
	}

	// Merge Network config
	if cfg.Network.CheckInterval == 0 {
		cfg.Network.CheckInterval = defaults.Network.CheckInterval
	}
	if cfg.Network.CheckTimeout == 0 {
		cfg.Network.CheckTimeout = defaults.Network.CheckTimeout
	}

	// Paths follow DataDir unless set explicitly
	if cfg.DataDir == "" {
		cfg.DataDir = defaults.DataDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.DataDir, "logs")
	}
	if cfg.Backup.Dir == "" {
		cfg.Backup.Dir = filepath.Join(cfg.DataDir, "backups")
	}

	return cfg
}

// Model returns the model with the given id
func (c *Config) Model(id string) (ModelConfig, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			return m, true
		}
	}
	return ModelConfig{}, false
}

// DefaultModel returns the configured default model
func (c *Config) DefaultModel() (ModelConfig, bool) {
	if c.DefaultModelID == "" {
		return ModelConfig{}, false
	}
	return c.Model(c.DefaultModelID)
}

// DBPath returns the path of the word list and history database
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "infopedia.db")
}

// Load is a convenience function that loads config from the default path
func Load() (*Config, error) {
	return LoadConfig(DefaultPath())
}
