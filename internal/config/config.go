package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"albumpulse/internal/lyrics"
	"albumpulse/internal/match"
	"albumpulse/internal/store"
)

// Config contains the program configuration
type Config struct {
	AlbumName  string `yaml:"album_name"`
	ArtistName string `yaml:"artist_name"`
	// AlbumSlug prefixes track ids; derived from album_name when empty.
	AlbumSlug string `yaml:"album_slug"`

	ChannelID string `yaml:"channel_id"`
	// PlaylistID skips the playlist search when set. Release playlists
	// usually look like OLAK5uy_...
	PlaylistID string `yaml:"playlist_id"`

	DataDir string `yaml:"data_dir"`
	Verbose bool   `yaml:"verbose"`

	SleepBetweenRequests float64 `yaml:"sleep_between_requests"`

	// Snapshot collection window, UTC hours.
	SnapshotStartHourUTC int  `yaml:"snapshot_start_hour_utc"`
	SnapshotEndHourUTC   int  `yaml:"snapshot_end_hour_utc"`
	ForceSnapshot        bool `yaml:"force_snapshot"`

	// Lyric matches above this word count are labeled high confidence.
	LyricConfidenceWords int `yaml:"lyric_confidence_words"`

	Cleaner lyrics.CleanerConfig `yaml:"cleaner"`
	Weights match.Weights        `yaml:"match_weights"`
}

// Secrets holds the credentials read from the environment.
type Secrets struct {
	GeniusAPIKey  string
	YouTubeAPIKey string
	Postgres      store.Config
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DataDir:              "data",
		SleepBetweenRequests: 0.7,
		SnapshotStartHourUTC: 18,
		SnapshotEndHourUTC:   22,
		LyricConfidenceWords: 50,
		Cleaner:              lyrics.DefaultCleanerConfig(),
		Weights:              match.DefaultWeights(),
	}
}

// LoadConfigFile loads configuration from a YAML file.
// If path is empty, searches standard locations. Returns defaults if no file found.
func LoadConfigFile(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = FindConfigFile()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.DataDir = ExpandHome(cfg.DataDir)

	return cfg, nil
}

// LoadEnv reads credentials from the environment, first loading a .env
// file when one exists. A missing .env file is fine; the variables may
// already be exported.
func LoadEnv(path string) Secrets {
	if path == "" {
		path = ".env"
	}
	_ = godotenv.Load(path)

	return Secrets{
		GeniusAPIKey:  os.Getenv("GENIUS_API_KEY"),
		YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
		Postgres: store.Config{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			Database: os.Getenv("POSTGRES_DB"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
		},
	}
}

// SleepDuration converts the configured request pause to a duration.
func (c *Config) SleepDuration() time.Duration {
	return time.Duration(c.SleepBetweenRequests * float64(time.Second))
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

// FindConfigFile searches for a config file in standard locations
func FindConfigFile() string {
	home := homeDir()
	locations := []string{
		"./albumpulse.yaml",
		"./albumpulse.yml",
		filepath.Join(home, ".config", "albumpulse", "config.yaml"),
		filepath.Join(home, ".config", "albumpulse", "config.yml"),
		filepath.Join(home, ".albumpulse.yaml"),
		filepath.Join(home, ".albumpulse.yml"),
	}

	for _, path := range locations {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// SaveConfigFile saves the current configuration to a YAML file
func SaveConfigFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPath returns the default config file path
func GetDefaultConfigPath() string {
	return filepath.Join(homeDir(), ".config", "albumpulse", "config.yaml")
}

// GetDefaultLogPath returns the default log directory path
func GetDefaultLogPath() string {
	return filepath.Join(homeDir(), ".local", "share", "albumpulse", "logs")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AlbumName == "" {
		return fmt.Errorf("album_name cannot be empty")
	}
	if c.ArtistName == "" {
		return fmt.Errorf("artist_name cannot be empty")
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}

	if c.SleepBetweenRequests < 0 {
		return fmt.Errorf("sleep_between_requests cannot be negative, got %.2f", c.SleepBetweenRequests)
	}
	if c.Weights.MinVideoSeconds < 0 {
		return fmt.Errorf("match_weights.min_video_seconds cannot be negative, got %d", c.Weights.MinVideoSeconds)
	}

	if c.SnapshotStartHourUTC < 0 || c.SnapshotStartHourUTC > 23 {
		return fmt.Errorf("snapshot_start_hour_utc must be between 0 and 23, got %d", c.SnapshotStartHourUTC)
	}
	if c.SnapshotEndHourUTC < 1 || c.SnapshotEndHourUTC > 24 {
		return fmt.Errorf("snapshot_end_hour_utc must be between 1 and 24, got %d", c.SnapshotEndHourUTC)
	}
	if c.SnapshotStartHourUTC >= c.SnapshotEndHourUTC {
		return fmt.Errorf("snapshot window is empty: start %d, end %d", c.SnapshotStartHourUTC, c.SnapshotEndHourUTC)
	}

	if c.LyricConfidenceWords < 1 {
		return fmt.Errorf("lyric_confidence_words must be at least 1, got %d", c.LyricConfidenceWords)
	}

	return nil
}
