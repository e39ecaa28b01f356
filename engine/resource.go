package engine

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/milk9111/bgm/vfs"
)

// audioStream is what every Ebiten decoder hands back: a seekable PCM
// stream with a known byte length.
type audioStream interface {
	io.ReadSeeker
	Length() int64
}

// resourceManager turns paths into decoded streams. All byte access goes
// through the vfs bridge, so storage stays swappable and the bridge is the
// only thing the mixer's decode path ever touches.
type resourceManager struct {
	bridge     *vfs.Bridge
	sampleRate int
	sink       *logSink
}

func newResourceManager(storage vfs.Storage, sampleRate int, sink *logSink) (*resourceManager, error) {
	if storage == nil {
		return nil, errors.New("engine: storage is required")
	}
	return &resourceManager{
		bridge:     vfs.NewBridge(storage, sink.zl),
		sampleRate: sampleRate,
		sink:       sink,
	}, nil
}

// openStream opens path through the bridge and decodes it by extension.
// The returned release func closes the bridge handle; call it exactly once,
// after the stream is no longer read.
func (rm *resourceManager) openStream(p string) (audioStream, func(), error) {
	h, res := rm.bridge.Open(p, vfs.ModeRead)
	if res != vfs.ResultSuccess {
		return nil, nil, errors.Newf("engine: open %q: %s", p, res)
	}
	reader := &handleReader{bridge: rm.bridge, handle: h}
	release := func() { rm.bridge.Close(h) }

	stream, err := decodeStream(p, rm.sampleRate, reader)
	if err != nil {
		release()
		return nil, nil, errors.Wrapf(err, "engine: decode %q", p)
	}
	rm.sink.Post(LevelDebug, fmt.Sprintf("opened stream %s", p))
	return stream, release, nil
}

func (rm *resourceManager) close() {
	if n := rm.bridge.OpenCount(); n > 0 {
		rm.sink.Post(LevelWarning, fmt.Sprintf("%d file handles leaked at shutdown", n))
	}
}

func decodeStream(p string, sampleRate int, src io.ReadSeeker) (audioStream, error) {
	switch strings.ToLower(path.Ext(p)) {
	case ".wav":
		return wav.DecodeWithSampleRate(sampleRate, src)
	case ".ogg":
		return vorbis.DecodeWithSampleRate(sampleRate, src)
	case ".mp3":
		return mp3.DecodeWithSampleRate(sampleRate, src)
	}
	return nil, errors.Newf("unsupported audio format %q", path.Ext(p))
}
