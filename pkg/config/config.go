/*
Package config manages TOML config for setlistserve.
*/
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bastiangx/setlistserve/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Environment variables that override file values.
const (
	EnvDataDir    = "SETLIST_DATA_DIR"
	EnvBaseURL    = "SETLIST_BASE_URL"
	EnvDebounceMS = "SETLIST_DEBOUNCE_MS"
)

// Config holds the entire config structure
type Config struct {
	Data    DataConfig    `toml:"data"`
	Suggest SuggestConfig `toml:"suggest"`
	Ranking RankingConfig `toml:"ranking"`
	CLI     CliConfig     `toml:"cli"`
}

// DataConfig locates the dataset.
type DataConfig struct {
	Dir       string `toml:"dir"`
	BaseURL   string `toml:"base_url"`
	TimeoutMS int    `toml:"timeout_ms"`
	IndexFile string `toml:"index_file"`
	SongsFile string `toml:"songs_file"`
}

// SuggestConfig holds autocomplete options.
type SuggestConfig struct {
	MaxCandidates int `toml:"max_candidates"`
	DebounceMS    int `toml:"debounce_ms"`
	Nearest       int `toml:"nearest"`
	MaxQuery      int `toml:"max_query"`
}

// RankingConfig holds the disclosure caps.
type RankingConfig struct {
	InitialCap  int `toml:"initial_cap"`
	ExpandedCap int `toml:"expanded_cap"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultYear string `toml:"default_year"`
	Color       bool   `toml:"color"`
}

// Timeout returns the HTTP fetch timeout.
func (d DataConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutMS) * time.Millisecond
}

// Debounce returns the autocomplete settle delay.
func (s SuggestConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/setlistserve
// 2. ~/Library/Application Support/setlistserve (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "setlistserve")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "setlistserve")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	return utils.GetExecutableDir()
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/setlistserve/config.toml
// 3. Builtin defaults
//
// Environment overrides are applied on top in every case.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	config, path := loadFile(customConfigPath)
	ApplyEnv(config)
	Validate(config)
	return config, path, nil
}

func loadFile(customConfigPath string) (*Config, string) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), ""
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), ""
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:       "data",
			BaseURL:   "",
			TimeoutMS: 5000,
			IndexFile: "index.json",
			SongsFile: "songs.raw.json",
		},
		Suggest: SuggestConfig{
			MaxCandidates: 20,
			DebounceMS:    100,
			Nearest:       3,
			MaxQuery:      60,
		},
		Ranking: RankingConfig{
			InitialCap:  10,
			ExpandedCap: 40,
		},
		CLI: CliConfig{
			DefaultYear: "",
			Color:       true,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps whatever sections of a broken file still decode.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "data"); ok {
		extractDataConfig(section, &config.Data)
	}
	if section, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(section, &config.Suggest)
	}
	if section, ok := utils.ExtractSection(tempConfig, "ranking"); ok {
		extractRankingConfig(section, &config.Ranking)
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractDataConfig(data map[string]any, d *DataConfig) {
	if val, ok := utils.ExtractString(data, "dir"); ok {
		d.Dir = val
	}
	if val, ok := utils.ExtractString(data, "base_url"); ok {
		d.BaseURL = val
	}
	if val, ok := utils.ExtractInt64(data, "timeout_ms"); ok {
		d.TimeoutMS = val
	}
	if val, ok := utils.ExtractString(data, "index_file"); ok {
		d.IndexFile = val
	}
	if val, ok := utils.ExtractString(data, "songs_file"); ok {
		d.SongsFile = val
	}
}

func extractSuggestConfig(data map[string]any, s *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "max_candidates"); ok {
		s.MaxCandidates = val
	}
	if val, ok := utils.ExtractInt64(data, "debounce_ms"); ok {
		s.DebounceMS = val
	}
	if val, ok := utils.ExtractInt64(data, "nearest"); ok {
		s.Nearest = val
	}
	if val, ok := utils.ExtractInt64(data, "max_query"); ok {
		s.MaxQuery = val
	}
}

func extractRankingConfig(data map[string]any, r *RankingConfig) {
	if val, ok := utils.ExtractInt64(data, "initial_cap"); ok {
		r.InitialCap = val
	}
	if val, ok := utils.ExtractInt64(data, "expanded_cap"); ok {
		r.ExpandedCap = val
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractString(data, "default_year"); ok {
		cli.DefaultYear = val
	}
	if val, ok := utils.ExtractBool(data, "color"); ok {
		cli.Color = val
	}
}

// ApplyEnv loads a .env file from the working directory, if present, and
// applies the SETLIST_* overrides. Variables already set in the process
// environment win over the .env file.
func ApplyEnv(c *Config) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to load .env: %v", err)
	}

	if v := os.Getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Data.BaseURL = v
	}
	if v := os.Getenv(EnvDebounceMS); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			log.Warnf("Ignoring %s=%q: %v", EnvDebounceMS, v, err)
		} else {
			c.Suggest.DebounceMS = ms
		}
	}
}

// Validate resets values that cannot work back to their defaults.
func Validate(c *Config) {
	def := DefaultConfig()

	if c.Data.Dir == "" {
		c.Data.Dir = def.Data.Dir
	}
	if c.Data.TimeoutMS <= 0 {
		log.Warnf("Invalid timeout_ms %d, using %d", c.Data.TimeoutMS, def.Data.TimeoutMS)
		c.Data.TimeoutMS = def.Data.TimeoutMS
	}
	if c.Data.IndexFile == "" {
		c.Data.IndexFile = def.Data.IndexFile
	}
	if c.Data.SongsFile == "" {
		c.Data.SongsFile = def.Data.SongsFile
	}
	if c.Suggest.MaxCandidates < 1 {
		log.Warnf("Invalid max_candidates %d, using %d", c.Suggest.MaxCandidates, def.Suggest.MaxCandidates)
		c.Suggest.MaxCandidates = def.Suggest.MaxCandidates
	}
	if c.Suggest.DebounceMS < 0 {
		c.Suggest.DebounceMS = def.Suggest.DebounceMS
	}
	if c.Suggest.Nearest < 0 {
		c.Suggest.Nearest = 0
	}
	if c.Suggest.MaxQuery < 1 {
		c.Suggest.MaxQuery = def.Suggest.MaxQuery
	}
	if c.Ranking.InitialCap < 1 {
		log.Warnf("Invalid initial_cap %d, using %d", c.Ranking.InitialCap, def.Ranking.InitialCap)
		c.Ranking.InitialCap = def.Ranking.InitialCap
	}
	if c.Ranking.ExpandedCap < c.Ranking.InitialCap {
		log.Warnf("expanded_cap %d below initial_cap %d, raising it", c.Ranking.ExpandedCap, c.Ranking.InitialCap)
		c.Ranking.ExpandedCap = max(def.Ranking.ExpandedCap, c.Ranking.InitialCap)
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
