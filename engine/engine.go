package engine

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/rs/zerolog"

	"github.com/milk9111/bgm/music"
	"github.com/milk9111/bgm/vfs"
)

// DefaultSampleRate matches the rate the game's other audio runs at.
const DefaultSampleRate = 44100

// Options configures facade construction.
type Options struct {
	// Storage backs all file access. Required.
	Storage vfs.Storage

	// SampleRate of the mixer; DefaultSampleRate when zero. An Ebiten audio
	// context already created by the host must use the same rate.
	SampleRate int

	Logger zerolog.Logger
}

// Facade owns the engine stack: log sink, resource manager, and the Ebiten
// audio context, built in that dependency order and torn down in reverse.
// A construction failure at any step is fatal; there is no partial-engine
// operation.
type Facade struct {
	sink      *logSink
	resources *resourceManager
	ctx       *audio.Context

	mu     sync.Mutex
	master float64
	sounds map[*Sound]struct{}
	closed bool
}

var _ music.Engine = (*Facade)(nil)

func New(opts Options) (*Facade, error) {
	sampleRate := opts.SampleRate
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	sink := newLogSink(opts.Logger)

	resources, err := newResourceManager(opts.Storage, sampleRate, sink)
	if err != nil {
		return nil, err
	}

	// Ebiten allows one audio context per process; adopt the host's if the
	// game created one already.
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	} else if ctx.SampleRate() != sampleRate {
		return nil, errors.Newf(
			"engine: audio context sample rate %d does not match configured %d",
			ctx.SampleRate(), sampleRate,
		)
	}

	sink.Post(LevelInfo, fmt.Sprintf("audio engine up (sample rate %d)", sampleRate))
	return &Facade{
		sink:      sink,
		resources: resources,
		ctx:       ctx,
		master:    1,
		sounds:    make(map[*Sound]struct{}),
	}, nil
}

// NewSound opens path through the resource manager and returns a stopped,
// full-volume sound. The sound owns its bridge handle until Close.
func (f *Facade) NewSound(path string, loop bool) (music.Sound, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, errors.New("engine: closed")
	}
	master := f.master
	f.mu.Unlock()

	stream, release, err := f.resources.openStream(path)
	if err != nil {
		return nil, err
	}

	var src io.Reader = stream
	if loop {
		src = audio.NewInfiniteLoop(stream, stream.Length())
	}

	player, err := f.ctx.NewPlayer(src)
	if err != nil {
		release()
		return nil, errors.Wrapf(err, "engine: player for %q", path)
	}
	player.SetVolume(master)

	s := &Sound{
		facade:  f,
		player:  player,
		release: release,
		ramp:    constantRamp(1),
	}

	f.mu.Lock()
	f.sounds[s] = struct{}{}
	f.mu.Unlock()
	return s, nil
}

// SetVolume sets the global volume applied on top of per-sound fades.
func (f *Facade) SetVolume(v float64) error {
	if v < 0 || v > 1 {
		return errors.Newf("engine: volume %v out of [0, 1]", v)
	}
	f.mu.Lock()
	f.master = v
	f.mu.Unlock()
	return nil
}

// Update advances every live sound: interpolated fade volume times the
// global volume goes to the mixer, and due stop times pause their players.
func (f *Facade) Update() {
	f.mu.Lock()
	master := f.master
	live := make([]*Sound, 0, len(f.sounds))
	for s := range f.sounds {
		live = append(live, s)
	}
	f.mu.Unlock()

	now := time.Now()
	for _, s := range live {
		s.apply(now, master)
	}
}

// Close releases all live sounds, then the resource manager, then the log
// sink — the exact reverse of construction. The audio context itself is
// process-wide in Ebiten and has no teardown.
func (f *Facade) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	live := make([]*Sound, 0, len(f.sounds))
	for s := range f.sounds {
		live = append(live, s)
	}
	f.mu.Unlock()

	for _, s := range live {
		s.Close()
	}
	f.resources.close()
	f.sink.Post(LevelInfo, "audio engine down")
	return nil
}

func (f *Facade) remove(s *Sound) {
	f.mu.Lock()
	delete(f.sounds, s)
	f.mu.Unlock()
}
