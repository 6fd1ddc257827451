package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1024, cfg.Audio.BlockSize)
	assert.Equal(t, 0, cfg.Audio.SampleRate)
	assert.Equal(t, -1, cfg.Audio.Device)
	assert.Equal(t, int32(800), cfg.Video.Width)
	assert.Equal(t, int32(600), cfg.Video.Height)
	assert.Equal(t, 30, cfg.Video.FPS)
	assert.Equal(t, RGB{G: 255}, cfg.Visual.Primary)
	assert.Equal(t, RGB{R: 255}, cfg.Visual.Secondary)
	assert.Equal(t, RGB{R: 8, G: 8, B: 12}, cfg.Visual.Background)
	assert.True(t, cfg.Visual.Glitch)
	assert.Empty(t, cfg.Record.Path)
	assert.Equal(t, 8, cfg.Record.Peaks)
}

func TestLoadEnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("VJ_BLOCK_SIZE", "2048")
	t.Setenv("VJ_SAMPLE_RATE", "48000")
	t.Setenv("VJ_FPS", "60")
	t.Setenv("VJ_PRIMARY_COLOR", "10, 20, 30")
	t.Setenv("VJ_GLITCH_ENABLED", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 2048, cfg.Audio.BlockSize)
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.Equal(t, 60, cfg.Video.FPS)
	assert.Equal(t, RGB{R: 10, G: 20, B: 30}, cfg.Visual.Primary)
	assert.False(t, cfg.Visual.Glitch)
}

func TestLoadExplicitConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "vj.yaml")
	require.NoError(t, os.WriteFile(path, []byte("BLOCK_SIZE: 4096\nFPS: 24\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.Audio.BlockSize)
	assert.Equal(t, 24, cfg.Video.FPS)
}

func TestLoadMissingExplicitConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "config file")
}

func TestLoadDefersValidationToFlagMerge(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("VJ_BLOCK_SIZE", "1000")

	// Load must not reject the bad env value itself, so a CLI flag can
	// still override it before validation runs.
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Audio.BlockSize)
	assert.ErrorContains(t, cfg.Validate(), "power of two")

	cfg.Audio.BlockSize = 1024
	assert.NoError(t, cfg.Validate())
}

func TestLoadRejectsBadColor(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("VJ_BACKGROUND_COLOR", "300,0,0")

	_, err := Load("")
	assert.ErrorContains(t, err, "BACKGROUND_COLOR")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Audio:  AudioConfig{BlockSize: 1024, Device: -1},
			Video:  VideoConfig{Width: 800, Height: 600, FPS: 30},
			Record: RecordConfig{Peaks: 8},
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.Audio.BlockSize = 48
	assert.Error(t, c.Validate())

	c = base()
	c.Audio.SampleRate = -1
	assert.ErrorContains(t, c.Validate(), "positive or 0")

	c = base()
	c.Video.FPS = 0
	assert.Error(t, c.Validate())

	c = base()
	c.Video.Width = 100
	assert.Error(t, c.Validate())

	c = base()
	c.Record.Peaks = 0
	assert.Error(t, c.Validate())
}

func TestParseRGB(t *testing.T) {
	rgb, err := ParseRGB("1,2,3")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 1, G: 2, B: 3}, rgb)

	_, err = ParseRGB("1,2")
	assert.Error(t, err)

	_, err = ParseRGB("1,2,abc")
	assert.Error(t, err)

	_, err = ParseRGB("-1,0,0")
	assert.Error(t, err)
}
