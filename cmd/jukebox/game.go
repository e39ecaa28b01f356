package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/rs/zerolog"

	"github.com/milk9111/bgm/music"
	"github.com/milk9111/bgm/track"
)

const (
	baseWidth  = 640
	baseHeight = 360

	volumeStep = 0.05
)

type Game struct {
	manager *music.Manager
	watcher *track.Watcher
	tracks  []track.ID
	log     zerolog.Logger

	volume float64
	inited bool
}

func (g *Game) Update() error {
	if !g.inited {
		g.inited = true
		_, _, g.volume = g.manager.Status()
		if len(g.tracks) > 0 {
			g.manager.RequestTrack(string(g.tracks[0]))
		}
	}

	for i, id := range g.tracks {
		if i >= 9 {
			break
		}
		if inpututil.IsKeyJustPressed(ebiten.Key(int(ebiten.KeyDigit1) + i)) {
			g.manager.RequestTrack(string(id))
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.manager.Stop()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.volume += volumeStep
		g.manager.SetVolume(g.volume)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.volume -= volumeStep
		g.manager.SetVolume(g.volume)
	}

	g.drainWatcher()
	g.manager.Tick()
	return nil
}

// drainWatcher re-requests the audible track when one of its files changes
// on disk, so edited music is picked up without restarting.
func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	changed := false
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Info().Str("file", name).Msg("music file changed")
			changed = true
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn().Err(err).Msg("music watcher")
		default:
			if changed {
				g.manager.Reload()
			}
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	active, pending, volume := g.manager.Status()
	g.volume = volume

	status := fmt.Sprintf(
		"active:  %s\npending: %s\nvolume:  %.2f\n\n1-9 switch track   S stop   up/down volume",
		orNone(active), orNone(pending), volume,
	)
	ebitenutil.DebugPrint(screen, status)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

func orNone(id track.ID) string {
	if id == track.None {
		return "(none)"
	}
	return string(id)
}
