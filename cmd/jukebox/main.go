// Command jukebox is a minimal Ebiten host for the music subsystem: number
// keys crossfade between configured tracks, S stops, arrows set the volume.
// Music files under the resolver roots hot-reload while it runs.
package main

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"

	"github.com/milk9111/bgm/config"
	"github.com/milk9111/bgm/engine"
	"github.com/milk9111/bgm/music"
	"github.com/milk9111/bgm/track"
	"github.com/milk9111/bgm/vfs"
)

func main() {
	configPath := flag.String("config", "", "path to music.yaml (defaults used when empty)")
	tracks := flag.String("tracks", "core:menu,core:battle", "comma-separated track ids bound to number keys")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	facade, err := engine.New(engine.Options{
		Storage:    vfs.NewOS(),
		SampleRate: cfg.SampleRate,
		Logger:     log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("audio engine init")
	}

	resolver := track.NewResolver(cfg.AssetsRoot, cfg.InstallRoot, cfg.Extension)
	manager := music.NewManager(facade, resolver, music.Config{
		FadeDuration: cfg.FadeDuration(),
		Loop:         cfg.LoopEnabled(),
		Logger:       log,
	})
	defer func() {
		if err := manager.Close(); err != nil {
			log.Error().Err(err).Msg("manager close")
		}
	}()
	manager.SetVolume(cfg.Volume)

	watcher := newMusicWatcher(resolver, log)
	if watcher != nil {
		defer watcher.Close()
	}

	game := &Game{
		manager: manager,
		watcher: watcher,
		tracks:  splitTracks(*tracks),
		log:     log,
	}

	ebiten.SetWindowSize(640, 360)
	ebiten.SetWindowTitle("jukebox")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("run")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

// newMusicWatcher watches both resolver roots; a missing root just disables
// hot reload for it.
func newMusicWatcher(resolver *track.Resolver, log zerolog.Logger) *track.Watcher {
	assets, install := resolver.Roots()

	var dirs []string
	for _, dir := range []string{assets, install} {
		if _, err := os.Stat(dir); err == nil {
			dirs = append(dirs, dir)
		}
	}
	if len(dirs) == 0 {
		return nil
	}

	watcher, err := track.NewWatcher(dirs...)
	if err != nil {
		log.Warn().Err(err).Msg("music hot reload unavailable")
		return nil
	}
	return watcher
}

func splitTracks(s string) []track.ID {
	var ids []track.ID
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, track.ID(part))
		}
	}
	return ids
}
