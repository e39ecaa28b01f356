package track

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMusicFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))
}

func nextEvent(t *testing.T, w *Watcher, timeout time.Duration) string {
	t.Helper()
	select {
	case name, ok := <-w.Events:
		require.True(t, ok, "events channel closed while waiting")
		return name
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a watch event")
		return ""
	}
}

func TestWatcherForwardsMusicFileChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	writeMusicFile(t, filepath.Join(dir, "caves.ogg"))

	assert.Equal(t, filepath.Join(dir, "caves.ogg"), nextEvent(t, w, 5*time.Second))
}

func TestWatcherIgnoresNonMusicFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	writeMusicFile(t, filepath.Join(dir, "notes.txt"))
	writeMusicFile(t, filepath.Join(dir, "caves.wav"))

	// The wav write proves liveness; the txt write before it must not
	// come through first.
	assert.Equal(t, filepath.Join(dir, "caves.wav"), nextEvent(t, w, 5*time.Second))
}

func TestWatcherCloseIsIdempotentAndClosesChannels(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Events:
		assert.False(t, ok, "events channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("events channel not closed after Close")
	}
	select {
	case _, ok := <-w.Errors:
		assert.False(t, ok, "errors channel should be closed")
	case <-time.After(time.Second):
		t.Fatal("errors channel not closed after Close")
	}
}

func TestWatcherCloseWithUndrainedEvents(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)

	// More changed files than the events buffer holds, with nothing
	// reading. The forwarding goroutine ends up blocked mid-send; Close
	// must release it without sending on a closed channel.
	for i := 0; i < 2*cap(w.Events); i++ {
		writeMusicFile(t, filepath.Join(dir, fmt.Sprintf("track%02d.ogg", i)))
	}
	time.Sleep(250 * time.Millisecond)

	require.NoError(t, w.Close())

	for {
		select {
		case _, ok := <-w.Events:
			if !ok {
				return
			}
		case <-time.After(time.Second):
			t.Fatal("events channel never closed after Close")
		}
	}
}

func TestDebouncerCollapsesSaveBursts(t *testing.T) {
	now := time.Now()
	d := newDebouncer(100 * time.Millisecond)

	assert.True(t, d.admit("a.ogg", now))
	assert.False(t, d.admit("a.ogg", now.Add(10*time.Millisecond)))
	assert.False(t, d.admit("a.ogg", now.Add(99*time.Millisecond)))
	assert.True(t, d.admit("b.ogg", now.Add(10*time.Millisecond)))
	assert.True(t, d.admit("a.ogg", now.Add(150*time.Millisecond)))
}

func TestIsMusicFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"assets/base/music/caves.ogg", true},
		{"caves.WAV", true},
		{"caves.mp3", true},
		{"caves.flac", false},
		{"notes.txt", false},
		{"caves", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isMusicFile(tt.path), tt.path)
	}
}
