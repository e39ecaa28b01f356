// Package music implements the crossfading background-music manager. It owns
// at most two engine-resident tracks at a time — the audible one and the one
// queued to replace it — and is driven once per frame by the host game.
package music

import "time"

// Engine is the slice of the external audio engine the manager needs:
// sound lifecycle, global volume, and a per-tick update that advances fades
// and scheduled stops.
type Engine interface {
	// NewSound opens path through the engine's resource manager and returns
	// a stopped, full-volume sound ready to play.
	NewSound(path string, loop bool) (Sound, error)

	// SetVolume sets the engine's global volume in [0, 1].
	SetVolume(v float64) error

	// Update advances fade ramps and stop times. Called once per tick.
	Update()

	// Close tears the engine down. No Sound may be used afterwards.
	Close() error
}

// Sound is one engine-resident streaming sound object.
type Sound interface {
	Play()
	Stop()
	IsPlaying() bool

	// SetFade replaces the volume ramp: from from to to over d. The engine's
	// mixer interpolates; the manager only sets endpoints.
	SetFade(from, to float64, d time.Duration)

	// Volume reports the engine's current faded volume for this sound.
	Volume() float64

	// FadeTarget reports the ramp's end volume. A sound whose current
	// volume is above its target is fading toward silence.
	FadeTarget() float64

	// StopAt schedules an absolute stop time; ClearStop cancels it.
	StopAt(t time.Time)
	ClearStop()

	// Close releases the sound and its streaming data source. Called exactly
	// once per sound.
	Close()
}
