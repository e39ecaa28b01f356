package vfs

// Overlay probes a primary Storage and falls back to a secondary one.
// Games use it to let loose files on disk override bundled assets while
// iterating on music.
type Overlay struct {
	primary  Storage
	fallback Storage
}

func NewOverlay(primary, fallback Storage) Overlay {
	return Overlay{primary: primary, fallback: fallback}
}

func (o Overlay) Open(path string) (File, error) {
	f, err := o.primary.Open(path)
	if err == nil {
		return f, nil
	}
	return o.fallback.Open(path)
}
