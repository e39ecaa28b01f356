package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "music.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "assets", cfg.AssetsRoot)
	assert.Equal(t, "install", cfg.InstallRoot)
	assert.Equal(t, "ogg", cfg.Extension)
	assert.Equal(t, 500*time.Millisecond, cfg.FadeDuration())
	assert.Equal(t, 1.0, cfg.Volume)
	assert.Equal(t, 44100, cfg.SampleRate)
	assert.True(t, cfg.LoopEnabled())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name: "full",
			yaml: `
assets_root: game/assets
install_root: /opt/game
extension: wav
fade_ms: 1200
volume: 0.8
sample_rate: 48000
loop: false
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "game/assets", cfg.AssetsRoot)
				assert.Equal(t, "/opt/game", cfg.InstallRoot)
				assert.Equal(t, "wav", cfg.Extension)
				assert.Equal(t, 1200*time.Millisecond, cfg.FadeDuration())
				assert.Equal(t, 0.8, cfg.Volume)
				assert.Equal(t, 48000, cfg.SampleRate)
				assert.False(t, cfg.LoopEnabled())
			},
		},
		{
			name: "partial_gets_defaults",
			yaml: "assets_root: data\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data", cfg.AssetsRoot)
				assert.Equal(t, "install", cfg.InstallRoot)
				assert.Equal(t, "ogg", cfg.Extension)
				assert.True(t, cfg.LoopEnabled())
			},
		},
		{
			name:    "bad_extension",
			yaml:    "extension: flac\n",
			wantErr: true,
		},
		{
			name:    "volume_out_of_range",
			yaml:    "volume: 2.0\n",
			wantErr: true,
		},
		{
			name:    "bad_sample_rate",
			yaml:    "sample_rate: 12345\n",
			wantErr: true,
		},
		{
			name:    "not_yaml",
			yaml:    "{{{",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tc.yaml))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
