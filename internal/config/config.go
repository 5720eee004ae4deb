package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "umadeck"

// Default values written to a freshly created config file.
const (
	DefaultTierlistURL   = "https://uma.moe/assets/data/precomputed-tierlist.json"
	DefaultFetchTimeout  = 30
	DefaultFetchRetries  = 3
	DefaultLogLevel      = "warn"
	DefaultCollection    = "my_cards.json"
	DefaultEnriched      = "my_cards_enriched.json"
	DefaultTierlist      = "precomputed-tierlist.json"
	DefaultVisualization = "my_cards_visualization.md"
)

// Config represents the application configuration
type Config struct {
	DataDir             string `toml:"data_dir"`
	TierlistURL         string `toml:"tierlist_url"`
	FetchTimeoutSeconds int    `toml:"fetch_timeout_seconds"`
	FetchRetries        int    `toml:"fetch_retries"`
	LogLevel            string `toml:"log_level"`
	Files               Files  `toml:"files"`
}

// Files names the data files. Relative names resolve against DataDir.
type Files struct {
	Collection    string `toml:"collection"`
	Enriched      string `toml:"enriched"`
	Tierlist      string `toml:"tierlist"`
	Visualization string `toml:"visualization"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DataDir:             GetDataDir(),
		TierlistURL:         DefaultTierlistURL,
		FetchTimeoutSeconds: DefaultFetchTimeout,
		FetchRetries:        DefaultFetchRetries,
		LogLevel:            DefaultLogLevel,
		Files: Files{
			Collection:    DefaultCollection,
			Enriched:      DefaultEnriched,
			Tierlist:      DefaultTierlist,
			Visualization: DefaultVisualization,
		},
	}
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return xdgData
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetDataDir returns the default directory holding the card files
func GetDataDir() string {
	return filepath.Join(GetXDGDataHome(), appName)
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// LoadConfig loads the config file at the default location
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(GetConfigFilePath())
}

// LoadConfigFrom loads the config file at configPath, creating it with
// defaults when it does not exist. Missing keys keep their default values.
func LoadConfigFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	}

	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	config := Default()

	file, err := os.Create(configPath)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive, got %d", c.FetchTimeoutSeconds)
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("fetch_retries must not be negative, got %d", c.FetchRetries)
	}
	return nil
}

// FetchTimeout returns the HTTP timeout for tierlist downloads.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Resolve returns name unchanged when absolute, otherwise joined to DataDir.
func (c *Config) Resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

// CollectionPath returns the path of the user collection.
func (c *Config) CollectionPath() string {
	return c.Resolve(c.Files.Collection)
}

// EnrichedPath returns the path of the enriched collection.
func (c *Config) EnrichedPath() string {
	return c.Resolve(c.Files.Enriched)
}

// TierlistPath returns the path of the saved tierlist.
func (c *Config) TierlistPath() string {
	return c.Resolve(c.Files.Tierlist)
}

// VisualizationPath returns the path of the Markdown report.
func (c *Config) VisualizationPath() string {
	return c.Resolve(c.Files.Visualization)
}
