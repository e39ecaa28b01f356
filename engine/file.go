package engine

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/milk9111/bgm/vfs"
)

// handleReader exposes one bridge handle as the io.ReadSeeker the streaming
// decoders consume, translating the bridge's result vocabulary back into
// io errors.
type handleReader struct {
	bridge *vfs.Bridge
	handle vfs.Handle
}

func (r *handleReader) Read(p []byte) (int, error) {
	n, res := r.bridge.Read(r.handle, p)
	switch res {
	case vfs.ResultSuccess:
		return n, nil
	case vfs.ResultEndOfStream:
		if n > 0 {
			return n, nil
		}
		return 0, io.EOF
	}
	return n, errors.Newf("engine: vfs read: %s", res)
}

func (r *handleReader) Seek(offset int64, whence int) (int64, error) {
	var origin vfs.Origin
	switch whence {
	case io.SeekStart:
		origin = vfs.OriginStart
	case io.SeekCurrent:
		origin = vfs.OriginCurrent
	case io.SeekEnd:
		origin = vfs.OriginEnd
	default:
		return 0, errors.Newf("engine: vfs seek: unknown whence %d", whence)
	}

	if res := r.bridge.Seek(r.handle, offset, origin); res != vfs.ResultSuccess {
		return 0, errors.Newf("engine: vfs seek: %s", res)
	}
	pos, res := r.bridge.Tell(r.handle)
	if res != vfs.ResultSuccess {
		return 0, errors.Newf("engine: vfs tell: %s", res)
	}
	return pos, nil
}

func (r *handleReader) Close() error {
	r.bridge.Close(r.handle)
	return nil
}
