package music

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/milk9111/bgm/track"
)

// DefaultFadeDuration is used when the config leaves the fade unset.
const DefaultFadeDuration = 500 * time.Millisecond

// ErrLoadFailure is logged when both candidate paths fail to open.
var ErrLoadFailure = errors.New("music: load failure")

// Config tunes a Manager.
type Config struct {
	// FadeDuration is the one duration used for both fade-in and fade-out.
	FadeDuration time.Duration

	// Loop restarts tracks when their stream ends.
	Loop bool

	Logger zerolog.Logger
}

// RequestOptions overrides per-request playback behavior.
type RequestOptions struct {
	// Volume in (0, 1]; 0 means the track's remembered volume, or full.
	Volume float64

	// Fade overrides the configured fade duration for this transition.
	Fade time.Duration

	// NoLoop plays the track once instead of the configured looping style.
	NoLoop bool
}

// slot is one manager-owned engine sound and its occupancy state. An
// unoccupied slot always carries the empty id and a nil sound.
type slot struct {
	id    track.ID
	sound Sound
}

func (s *slot) occupied() bool { return s.id != track.None }

// retire releases the slot's sound exactly once and empties the slot.
func (s *slot) retire() {
	if s.sound != nil {
		s.sound.Stop()
		s.sound.Close()
	}
	*s = slot{}
}

// Manager is the crossfade state machine. One application thread drives
// Tick and RequestTrack; every public operation holds the single lock for
// its full duration, so a request racing a tick is serialized and a
// promotion never interleaves with a mutation.
type Manager struct {
	mu       sync.Mutex
	engine   Engine
	resolver *track.Resolver
	log      zerolog.Logger

	fade   time.Duration
	loop   bool
	volume float64

	// volumes remembers the last explicit per-track volume so a track
	// re-requested without one resumes where it was left.
	volumes map[track.ID]float64

	active  slot
	pending slot
	closed  bool
}

func NewManager(engine Engine, resolver *track.Resolver, cfg Config) *Manager {
	fade := cfg.FadeDuration
	if fade <= 0 {
		fade = DefaultFadeDuration
	}
	return &Manager{
		engine:   engine,
		resolver: resolver,
		log:      cfg.Logger,
		fade:     fade,
		loop:     cfg.Loop,
		volume:   1,
		volumes:  make(map[track.ID]float64),
	}
}

// RequestTrack asks for id to become the audible track, crossfading from
// whatever is playing. Best-effort: failures are logged and leave existing
// playback undisturbed. The empty id is a no-op.
func (m *Manager) RequestTrack(id string) {
	m.RequestTrackOptions(id, RequestOptions{})
}

// RequestTrackOptions is RequestTrack with per-request overrides.
func (m *Manager) RequestTrackOptions(id string, opts RequestOptions) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || track.ID(id) == track.None {
		return
	}
	m.requestLocked(track.ID(id), opts)
}

func (m *Manager) requestLocked(id track.ID, opts RequestOptions) {
	fade := opts.Fade
	if fade <= 0 {
		fade = m.fade
	}
	if opts.Volume > 0 {
		m.volumes[id] = clamp(opts.Volume)
	}
	vol := m.volumeFor(id)

	switch id {
	case m.active.id:
		// Already the audible track. If it is on its way out, ramp it back
		// up and cancel the scheduled stop; otherwise nothing to do.
		if isFadingOut(m.active.sound) {
			m.active.sound.SetFade(m.active.sound.Volume(), vol, fade)
			m.active.sound.ClearStop()
		}
		return

	case m.pending.id:
		// Already loading. Make sure the audible track is on its way out so
		// the pending one becomes audible once promoted.
		if m.active.occupied() && !isFadingOut(m.active.sound) {
			m.fadeOutLocked(&m.active, fade)
		}
		return
	}

	// Genuinely new track. A stale pending load is no longer wanted; retire
	// it before reusing the slot.
	if m.pending.occupied() {
		m.pending.retire()
	}

	first, second, err := m.resolver.Resolve(id)
	if err != nil {
		m.log.Warn().Str("track", string(id)).Err(err).Msg("music: request dropped")
		return
	}

	sound, err := m.openLocked(first, second, !opts.NoLoop && m.loop)
	if err != nil {
		m.log.Error().Str("track", string(id)).Err(err).Msg("music: request dropped")
		return
	}

	if !m.active.occupied() {
		// First-ever request: no fade dance, straight into the active slot.
		m.active = slot{id: id, sound: sound}
		m.startLocked(m.active.sound, vol, fade)
		return
	}

	m.pending = slot{id: id, sound: sound}
	if !isFadingOut(m.active.sound) {
		m.fadeOutLocked(&m.active, fade)
	}
}

// Stop fades the audible track to silence and retires it once stopped. Any
// pending track is dropped.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	if m.pending.occupied() {
		m.pending.retire()
	}
	if m.active.occupied() && !isFadingOut(m.active.sound) {
		m.fadeOutLocked(&m.active, m.fade)
	}
}

// Reload reopens the audible track from storage and swaps the fresh copy in
// with a fade-in. Development helper for hearing edited music files without
// restarting; requests for the active id are otherwise no-ops.
func (m *Manager) Reload() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed || !m.active.occupied() {
		return
	}

	id := m.active.id
	first, second, err := m.resolver.Resolve(id)
	if err != nil {
		return
	}
	sound, err := m.openLocked(first, second, m.loop)
	if err != nil {
		m.log.Error().Str("track", string(id)).Err(err).Msg("music: reload dropped")
		return
	}

	m.active.retire()
	m.active = slot{id: id, sound: sound}
	m.startLocked(sound, m.volumeFor(id), m.fade)
}

// Tick is called once per frame by the host. It promotes the pending track
// once the audible one has stopped, retires tracks that ran out with no
// replacement, and propagates volume state into the engine.
func (m *Manager) Tick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	m.engine.Update()

	if m.active.occupied() && !m.active.sound.IsPlaying() {
		m.active.retire()
		if m.pending.occupied() {
			m.active, m.pending = m.pending, slot{}
			m.startLocked(m.active.sound, m.volumeFor(m.active.id), m.fade)
		}
	}

	if err := m.engine.SetVolume(m.volume); err != nil {
		m.log.Warn().Err(err).Msg("music: volume propagation failed")
	}
}

// SetVolume forwards v to the engine's global volume control. Best-effort;
// failures are logged only.
func (m *Manager) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.volume = clamp(v)
	if m.closed {
		return
	}
	if err := m.engine.SetVolume(m.volume); err != nil {
		m.log.Warn().Float64("volume", m.volume).Err(err).Msg("music: set volume failed")
	}
}

// Status reports the current slot ids and global volume, for debug overlays.
func (m *Manager) Status() (active, pending track.ID, volume float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active.id, m.pending.id, m.volume
}

// Close retires both slots and tears the engine down. The manager is
// unusable afterwards.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	m.pending.retire()
	m.active.retire()
	return m.engine.Close()
}

// openLocked tries the candidate paths in order and returns the first sound
// the engine accepts.
func (m *Manager) openLocked(first, second string, loop bool) (Sound, error) {
	sound, firstErr := m.engine.NewSound(first, loop)
	if firstErr == nil {
		return sound, nil
	}
	sound, secondErr := m.engine.NewSound(second, loop)
	if secondErr == nil {
		m.log.Debug().Str("path", second).Msg("music: loaded from secondary root")
		return sound, nil
	}
	return nil, errors.WithSecondaryError(
		errors.Wrapf(ErrLoadFailure, "%s: %v", first, firstErr),
		secondErr,
	)
}

func (m *Manager) startLocked(s Sound, volume float64, fade time.Duration) {
	s.ClearStop()
	s.SetFade(0, volume, fade)
	s.Play()
}

// fadeOutLocked ramps the slot's sound to silence and schedules the stop
// that lets Tick observe it as ended.
func (m *Manager) fadeOutLocked(s *slot, fade time.Duration) {
	s.sound.SetFade(s.sound.Volume(), 0, fade)
	s.sound.StopAt(time.Now().Add(fade))
}

func (m *Manager) volumeFor(id track.ID) float64 {
	if v, ok := m.volumes[id]; ok && v > 0 {
		return v
	}
	return 1
}

func isFadingOut(s Sound) bool {
	return s != nil && s.Volume() > s.FadeTarget()
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
