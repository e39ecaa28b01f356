package vfs

import (
	"bytes"
	"io"
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStorage serves fixed byte slices and counts opens/closes.
type memStorage struct {
	files  map[string][]byte
	opens  int
	closes int
}

func (m *memStorage) Open(path string) (File, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, errors.Newf("no such file: %s", path)
	}
	m.opens++
	return &memFile{storage: m, reader: bytes.NewReader(data), size: int64(len(data))}, nil
}

type memFile struct {
	storage *memStorage
	reader  *bytes.Reader
	size    int64
	readErr error
}

func (f *memFile) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	return f.reader.Read(p)
}

func (f *memFile) Seek(offset int64, whence int) (int64, error) {
	return f.reader.Seek(offset, whence)
}

func (f *memFile) Size() (int64, error) { return f.size, nil }

func (f *memFile) Close() error {
	f.storage.closes++
	return nil
}

func newTestBridge(files map[string][]byte) (*Bridge, *memStorage) {
	storage := &memStorage{files: files}
	return NewBridge(storage, zerolog.Nop()), storage
}

func TestBridgeOpen(t *testing.T) {
	tests := []struct {
		name string
		path string
		mode Mode
		want Result
	}{
		{"existing_read", "core/music/menu.ogg", ModeRead, ResultSuccess},
		{"missing", "core/music/nope.ogg", ModeRead, ResultDoesNotExist},
		{"write_mode", "core/music/menu.ogg", ModeWrite, ResultInvalidArgs},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, _ := newTestBridge(map[string][]byte{
				"core/music/menu.ogg": []byte("0123456789"),
			})
			h, res := b.Open(tc.path, tc.mode)
			assert.Equal(t, tc.want, res)
			if res == ResultSuccess {
				assert.NotZero(t, h)
				b.Close(h)
			}
		})
	}
}

func TestBridgeReadCollapsesShortReadIntoEndOfStream(t *testing.T) {
	b, _ := newTestBridge(map[string][]byte{"a": []byte("0123456789")})
	h, res := b.Open("a", ModeRead)
	require.Equal(t, ResultSuccess, res)
	defer b.Close(h)

	// 10 bytes remain, 4096 requested: partial count plus end-of-stream.
	buf := make([]byte, 4096)
	n, res := b.Read(h, buf)
	assert.Equal(t, 10, n)
	assert.Equal(t, ResultEndOfStream, res)
	assert.Equal(t, []byte("0123456789"), buf[:n])

	// Reading again keeps reporting end-of-stream, not an error.
	n, res = b.Read(h, buf)
	assert.Zero(t, n)
	assert.Equal(t, ResultEndOfStream, res)
}

func TestBridgeReadExact(t *testing.T) {
	b, _ := newTestBridge(map[string][]byte{"a": []byte("0123456789")})
	h, res := b.Open("a", ModeRead)
	require.Equal(t, ResultSuccess, res)
	defer b.Close(h)

	buf := make([]byte, 4)
	n, res := b.Read(h, buf)
	assert.Equal(t, 4, n)
	assert.Equal(t, ResultSuccess, res)
	assert.Equal(t, []byte("0123"), buf)
}

func TestBridgeReadHostFailure(t *testing.T) {
	storage := &memStorage{files: map[string][]byte{"a": []byte("0123456789")}}
	b := NewBridge(storage, zerolog.Nop())

	h, res := b.Open("a", ModeRead)
	require.Equal(t, ResultSuccess, res)
	defer b.Close(h)

	f := b.lookup(h).(*memFile)
	f.readErr = errors.New("disk on fire")

	_, res = b.Read(h, make([]byte, 8))
	assert.Equal(t, ResultIOError, res)
}

func TestBridgeSeekTellStat(t *testing.T) {
	b, _ := newTestBridge(map[string][]byte{"a": []byte("0123456789")})
	h, res := b.Open("a", ModeRead)
	require.Equal(t, ResultSuccess, res)
	defer b.Close(h)

	tests := []struct {
		name    string
		offset  int64
		origin  Origin
		want    Result
		wantPos int64
	}{
		{"from_start", 4, OriginStart, ResultSuccess, 4},
		{"from_current", 2, OriginCurrent, ResultSuccess, 6},
		{"from_end", -3, OriginEnd, ResultSuccess, 7},
		{"bad_origin", 0, Origin(42), ResultInvalidArgs, 7},
		{"negative_position", -1, OriginStart, ResultIOError, 7},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, b.Seek(h, tc.offset, tc.origin))
			pos, res := b.Tell(h)
			require.Equal(t, ResultSuccess, res)
			assert.Equal(t, tc.wantPos, pos)
		})
	}

	size, res := b.Stat(h)
	require.Equal(t, ResultSuccess, res)
	assert.Equal(t, int64(10), size)
}

func TestBridgeHandleLifecycle(t *testing.T) {
	b, storage := newTestBridge(map[string][]byte{"a": []byte("x"), "b": []byte("y")})

	h1, res := b.Open("a", ModeRead)
	require.Equal(t, ResultSuccess, res)
	h2, res := b.Open("b", ModeRead)
	require.Equal(t, ResultSuccess, res)
	assert.NotEqual(t, h1, h2)
	assert.Equal(t, 2, b.OpenCount())

	b.Close(h1)
	b.Close(h2)
	assert.Zero(t, b.OpenCount())
	assert.Equal(t, storage.opens, storage.closes)

	// Operations on a released handle degrade to invalid-args.
	_, res = b.Read(h1, make([]byte, 1))
	assert.Equal(t, ResultInvalidArgs, res)
	_, res = b.Tell(h1)
	assert.Equal(t, ResultInvalidArgs, res)
}

func TestFSStorage(t *testing.T) {
	fsys := fstest.MapFS{
		"core/music/menu.ogg": &fstest.MapFile{Data: []byte("oggbytes")},
	}
	storage := NewFS(fsys)

	f, err := storage.Open("core/music/menu.ogg")
	require.NoError(t, err)
	defer f.Close()

	size, err := f.Size()
	require.NoError(t, err)
	assert.Equal(t, int64(8), size)

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "oggbytes", string(data))

	_, err = storage.Open("core/music/missing.ogg")
	assert.Error(t, err)
}

func TestOverlayStorage(t *testing.T) {
	primary := &memStorage{files: map[string][]byte{"shared": []byte("primary")}}
	fallback := &memStorage{files: map[string][]byte{
		"shared": []byte("fallback"),
		"only":   []byte("fallback-only"),
	}}
	overlay := NewOverlay(primary, fallback)

	f, err := overlay.Open("shared")
	require.NoError(t, err)
	data, _ := io.ReadAll(f)
	assert.Equal(t, "primary", string(data))
	f.Close()

	f, err = overlay.Open("only")
	require.NoError(t, err)
	data, _ = io.ReadAll(f)
	assert.Equal(t, "fallback-only", string(data))
	f.Close()

	_, err = overlay.Open("nowhere")
	assert.Error(t, err)
}
