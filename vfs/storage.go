// Package vfs adapts an arbitrary host storage abstraction to the audio
// engine's file-callback contract. The engine never sees host errors; every
// outcome is translated into the Result vocabulary.
package vfs

import "io"

// Storage abstracts read-only access to named files. Implementations back
// it with the OS filesystem, an embedded fs.FS, or anything else that can
// produce seekable byte streams.
type Storage interface {
	Open(path string) (File, error)
}

// File is one open host file. A File is used by at most one goroutine at a
// time; serialization across goroutines is the caller's job.
type File interface {
	io.ReadSeekCloser

	// Size returns the total length of the file in bytes.
	Size() (int64, error)
}
