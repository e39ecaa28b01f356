package engine

import (
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// Sound is one engine-resident streaming track: an Ebiten player plus the
// fade ramp and scheduled stop the facade evaluates on every Update.
type Sound struct {
	facade  *Facade
	player  *audio.Player
	release func()

	mu      sync.Mutex
	ramp    fadeRamp
	stopAt  time.Time
	stopped bool
	closed  bool
}

func (s *Sound) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopped = false
	s.player.Play()
}

func (s *Sound) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopped = true
	s.player.Pause()
}

func (s *Sound) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.stopped {
		return false
	}
	return s.player.IsPlaying()
}

func (s *Sound) SetFade(from, to float64, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ramp = fadeRamp{from: from, to: to, start: time.Now(), dur: d}
}

func (s *Sound) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ramp.at(time.Now())
}

func (s *Sound) FadeTarget() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ramp.to
}

func (s *Sound) StopAt(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAt = t
}

func (s *Sound) ClearStop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopAt = time.Time{}
}

// Close releases the player and the streaming data source behind it. Safe
// to call once per sound; the manager guarantees exactly one call.
func (s *Sound) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	_ = s.player.Close()
	s.release()
	s.facade.remove(s)
}

// apply pushes the interpolated volume into the mixer and fires a due
// scheduled stop. Called by the facade on every Update.
func (s *Sound) apply(now time.Time, master float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.player.SetVolume(s.ramp.at(now) * master)

	if !s.stopAt.IsZero() && !now.Before(s.stopAt) {
		s.stopped = true
		s.player.Pause()
	}
}
