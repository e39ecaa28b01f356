package vfs

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// Handle is an opaque token for one open host file, as seen by the engine.
type Handle uint64

// Bridge exposes a Storage to the audio engine through the five file
// callbacks the engine requires: open, close, read, seek, tell/stat.
//
// Each Open allocates exactly one wrapper and its Handle; the paired Close
// releases it. The engine never uses one handle from two of its mixer
// threads at once, so per-handle operations need no locking — only the
// handle table itself is guarded.
type Bridge struct {
	storage Storage
	log     zerolog.Logger

	mu   sync.Mutex
	next Handle
	open map[Handle]File
}

func NewBridge(storage Storage, log zerolog.Logger) *Bridge {
	return &Bridge{
		storage: storage,
		log:     log,
		open:    make(map[Handle]File),
	}
}

// Open opens path for reading and returns a handle to it. Only read-only
// access is supported; any other mode is invalid-args. A path the storage
// cannot open reports does-not-exist, which is what makes the manager's
// two-candidate fallback work.
func (b *Bridge) Open(path string, mode Mode) (Handle, Result) {
	if mode != ModeRead {
		return 0, ResultInvalidArgs
	}

	f, err := b.storage.Open(path)
	if err != nil {
		b.log.Debug().Str("path", path).Err(err).Msg("vfs open failed")
		return 0, ResultDoesNotExist
	}

	b.mu.Lock()
	b.next++
	h := b.next
	b.open[h] = f
	b.mu.Unlock()

	return h, ResultSuccess
}

// Close releases the host file behind h. The engine calls it exactly once
// per successful Open.
func (b *Bridge) Close(h Handle) {
	b.mu.Lock()
	f, ok := b.open[h]
	delete(b.open, h)
	b.mu.Unlock()

	if !ok {
		b.log.Warn().Uint64("handle", uint64(h)).Msg("vfs close of unknown handle")
		return
	}
	if err := f.Close(); err != nil {
		b.log.Warn().Uint64("handle", uint64(h)).Err(err).Msg("vfs close failed")
	}
}

// Read fills p with up to len(p) bytes. A read that produces fewer bytes
// than requested reports the partial count together with end-of-stream;
// streaming decoders treat a short read as the end of the file, so the
// bridge does not distinguish the two.
func (b *Bridge) Read(h Handle, p []byte) (int, Result) {
	f := b.lookup(h)
	if f == nil {
		return 0, ResultInvalidArgs
	}

	n, err := f.Read(p)
	switch {
	case err == io.EOF:
		return n, ResultEndOfStream
	case err != nil:
		return n, ResultIOError
	case n < len(p):
		return n, ResultEndOfStream
	}
	return n, ResultSuccess
}

// Seek repositions h relative to origin.
func (b *Bridge) Seek(h Handle, offset int64, origin Origin) Result {
	f := b.lookup(h)
	if f == nil {
		return ResultInvalidArgs
	}

	var whence int
	switch origin {
	case OriginStart:
		whence = io.SeekStart
	case OriginCurrent:
		whence = io.SeekCurrent
	case OriginEnd:
		whence = io.SeekEnd
	default:
		return ResultInvalidArgs
	}

	if _, err := f.Seek(offset, whence); err != nil {
		return ResultIOError
	}
	return ResultSuccess
}

// Tell reports the current position of h.
func (b *Bridge) Tell(h Handle) (int64, Result) {
	f := b.lookup(h)
	if f == nil {
		return 0, ResultInvalidArgs
	}

	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, ResultIOError
	}
	return pos, ResultSuccess
}

// Stat reports the total size of h in bytes.
func (b *Bridge) Stat(h Handle) (int64, Result) {
	f := b.lookup(h)
	if f == nil {
		return 0, ResultInvalidArgs
	}

	size, err := f.Size()
	if err != nil {
		return 0, ResultIOError
	}
	return size, ResultSuccess
}

// OpenCount reports the number of live handles. Teardown sanity checks use
// it to catch leaked sounds.
func (b *Bridge) OpenCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.open)
}

func (b *Bridge) lookup(h Handle) File {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.open[h]
}
