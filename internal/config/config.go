package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/jask/moodboard/internal/board"
	"github.com/jask/moodboard/internal/cloudinary"
)

// Config holds application configuration.
type Config struct {
	Cloudinary CloudinaryConfig `toml:"cloudinary"`
	Boards     BoardsConfig     `toml:"boards"`
	Load       LoadConfig       `toml:"load"`
	Log        LogConfig        `toml:"log"`
}

// CloudinaryConfig selects the media host and tenant.
type CloudinaryConfig struct {
	CloudName string        `mapstructure:"cloud_name" toml:"cloud_name"`
	BaseURL   string        `mapstructure:"base_url" toml:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout" toml:"timeout"`
}

// BoardsConfig lists the boards to show, in order.
type BoardsConfig struct {
	Names []string `mapstructure:"names" toml:"names"`
}

// LoadConfig tunes how boards are fetched.
type LoadConfig struct {
	Parallelism     int  `mapstructure:"parallelism" toml:"parallelism"`
	ContinueOnError bool `mapstructure:"continue_on_error" toml:"continue_on_error"`
}

// LogConfig holds loggo settings. Level is a loggo config string such as
// "<root>=INFO;moodboard.cloudinary=TRACE".
type LogConfig struct {
	Level string `mapstructure:"level" toml:"level"`
	File  string `mapstructure:"file" toml:"file"`
}

func defaultDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "moodboard")
}

// Load reads configuration from file and env. Env var overrides use prefix MOODBOARD_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("cloudinary.cloud_name", "")
	v.SetDefault("cloudinary.base_url", cloudinary.DefaultBaseURL)
	v.SetDefault("cloudinary.timeout", 10*time.Second)
	v.SetDefault("boards.names", board.DefaultNames)
	v.SetDefault("load.parallelism", 1)
	v.SetDefault("load.continue_on_error", false)
	v.SetDefault("log.level", "<root>=WARNING")
	v.SetDefault("log.file", filepath.Join(os.Getenv("HOME"), ".local", "state", "moodboard", "moodboard.log"))

	v.SetConfigType("toml")

	cfgPath := os.Getenv("MOODBOARD_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(defaultDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MOODBOARD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing default config file is fine; a broken or missing explicit one is not
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgPath != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Boards.Names = splitNames(c.Boards.Names)
	return c, nil
}

// splitNames accepts both a TOML array and a comma separated env value.
func splitNames(in []string) []string {
	var out []string
	for _, item := range in {
		for _, name := range strings.Split(item, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// Validate reports settings the app cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Cloudinary.CloudName) == "" {
		return fmt.Errorf("cloudinary.cloud_name is required (set MOODBOARD_CLOUDINARY_CLOUD_NAME)")
	}
	if c.Load.Parallelism < 0 {
		return fmt.Errorf("load.parallelism must not be negative, got %d", c.Load.Parallelism)
	}
	if c.Cloudinary.Timeout < 0 {
		return fmt.Errorf("cloudinary.timeout must not be negative, got %v", c.Cloudinary.Timeout)
	}
	return nil
}

// Encode renders c as TOML.
func Encode(c Config) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return buf.String(), nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("MOODBOARD_CONFIG")
	if path == "" {
		path = filepath.Join(defaultDir(), "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("cloudinary.cloud_name", cfg.Cloudinary.CloudName)
	v.Set("cloudinary.base_url", cfg.Cloudinary.BaseURL)
	v.Set("cloudinary.timeout", cfg.Cloudinary.Timeout.String())
	v.Set("boards.names", cfg.Boards.Names)
	v.Set("load.parallelism", cfg.Load.Parallelism)
	v.Set("load.continue_on_error", cfg.Load.ContinueOnError)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
