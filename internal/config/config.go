package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the visualizer
type Config struct {
	Audio  AudioConfig
	Video  VideoConfig
	Visual VisualConfig
	Record RecordConfig
}

// AudioConfig holds capture/playback configuration
type AudioConfig struct {
	BlockSize  int
	SampleRate int // 0 means device/file-native
	Device     int // PortAudio index, -1 means default
}

// VideoConfig holds window and frame pacing configuration
type VideoConfig struct {
	Width  int32
	Height int32
	FPS    int
}

// VisualConfig holds the color scheme and effect toggles
type VisualConfig struct {
	Primary    RGB
	Secondary  RGB
	Background RGB
	Glitch     bool
}

// RecordConfig holds session summary output configuration
type RecordConfig struct {
	Path  string // empty disables recording
	Peaks int    // number of frequency peaks kept in the summary
}

// RGB is an 8-bit color triple, parsed from "r,g,b" strings
type RGB struct {
	R, G, B uint8
}

// Load loads configuration from defaults, a config file, and VJ_-prefixed
// environment variables, in increasing priority. configFile selects an
// explicit file and must exist; when empty, an optional ./vj.yaml is used.
func Load(configFile string) (*Config, error) {
	// Set defaults
	viper.SetDefault("BLOCK_SIZE", 1024)
	viper.SetDefault("SAMPLE_RATE", 0)
	viper.SetDefault("DEVICE", -1)
	viper.SetDefault("WINDOW_WIDTH", 800)
	viper.SetDefault("WINDOW_HEIGHT", 600)
	viper.SetDefault("FPS", 30)
	viper.SetDefault("PRIMARY_COLOR", "0,255,0")
	viper.SetDefault("SECONDARY_COLOR", "255,0,0")
	viper.SetDefault("BACKGROUND_COLOR", "8,8,12")
	viper.SetDefault("GLITCH_ENABLED", true)
	viper.SetDefault("RECORD_PATH", "")
	viper.SetDefault("RECORD_PEAKS", 8)

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		// Try to read an optional config file (ignore error if missing)
		viper.SetConfigName("vj")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		_ = viper.ReadInConfig()
	}

	// Environment variables override config file values
	viper.SetEnvPrefix("VJ")
	viper.AutomaticEnv()

	// Bind specific environment variable names
	viper.BindEnv("BLOCK_SIZE")
	viper.BindEnv("SAMPLE_RATE")
	viper.BindEnv("DEVICE")
	viper.BindEnv("WINDOW_WIDTH")
	viper.BindEnv("WINDOW_HEIGHT")
	viper.BindEnv("FPS")
	viper.BindEnv("PRIMARY_COLOR")
	viper.BindEnv("SECONDARY_COLOR")
	viper.BindEnv("BACKGROUND_COLOR")
	viper.BindEnv("GLITCH_ENABLED")
	viper.BindEnv("RECORD_PATH")
	viper.BindEnv("RECORD_PEAKS")

	var config Config
	config.Audio.BlockSize = viper.GetInt("BLOCK_SIZE")
	config.Audio.SampleRate = viper.GetInt("SAMPLE_RATE")
	config.Audio.Device = viper.GetInt("DEVICE")
	config.Video.Width = viper.GetInt32("WINDOW_WIDTH")
	config.Video.Height = viper.GetInt32("WINDOW_HEIGHT")
	config.Video.FPS = viper.GetInt("FPS")
	config.Visual.Glitch = viper.GetBool("GLITCH_ENABLED")
	config.Record.Path = viper.GetString("RECORD_PATH")
	config.Record.Peaks = viper.GetInt("RECORD_PEAKS")

	var err error
	if config.Visual.Primary, err = ParseRGB(viper.GetString("PRIMARY_COLOR")); err != nil {
		return nil, fmt.Errorf("invalid PRIMARY_COLOR: %w", err)
	}
	if config.Visual.Secondary, err = ParseRGB(viper.GetString("SECONDARY_COLOR")); err != nil {
		return nil, fmt.Errorf("invalid SECONDARY_COLOR: %w", err)
	}
	if config.Visual.Background, err = ParseRGB(viper.GetString("BACKGROUND_COLOR")); err != nil {
		return nil, fmt.Errorf("invalid BACKGROUND_COLOR: %w", err)
	}

	// Validation happens in the caller once CLI flags have been merged
	// on top; a bad file/env value a flag overrides must not abort here.
	return &config, nil
}

// Validate checks field ranges after flags have been merged in.
func (c *Config) Validate() error {
	if c.Audio.BlockSize < 64 || c.Audio.BlockSize&(c.Audio.BlockSize-1) != 0 {
		return fmt.Errorf("block size must be a power of two >= 64, got %d", c.Audio.BlockSize)
	}
	if c.Audio.SampleRate < 0 {
		return fmt.Errorf("sample rate must be positive or 0 (native), got %d", c.Audio.SampleRate)
	}
	if c.Video.FPS < 1 || c.Video.FPS > 240 {
		return fmt.Errorf("fps must be between 1 and 240, got %d", c.Video.FPS)
	}
	if c.Video.Width < 200 || c.Video.Height < 200 {
		return fmt.Errorf("window must be at least 200x200, got %dx%d", c.Video.Width, c.Video.Height)
	}
	if c.Record.Peaks < 1 {
		return fmt.Errorf("record peaks must be positive, got %d", c.Record.Peaks)
	}
	return nil
}

// ParseRGB parses a "r,g,b" string with components in [0, 255].
func ParseRGB(s string) (RGB, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return RGB{}, fmt.Errorf("expected r,g,b, got %q", s)
	}
	var vals [3]uint8
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 || v > 255 {
			return RGB{}, fmt.Errorf("component %q out of range 0-255", p)
		}
		vals[i] = uint8(v)
	}
	return RGB{R: vals[0], G: vals[1], B: vals[2]}, nil
}
