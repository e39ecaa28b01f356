package track

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultExtension is used when a Resolver is built without an explicit one.
const DefaultExtension = "ogg"

// Resolver maps track ids to the two candidate paths probed when loading:
// the bundled-assets root first, then the secondary installation root.
// Resolution is pure path construction; nothing is touched on disk.
type Resolver struct {
	assetsRoot  string
	installRoot string
	ext         string
}

func NewResolver(assetsRoot, installRoot, ext string) *Resolver {
	if ext == "" {
		ext = DefaultExtension
	}
	return &Resolver{
		assetsRoot:  filepath.ToSlash(assetsRoot),
		installRoot: filepath.ToSlash(installRoot),
		ext:         strings.TrimPrefix(ext, "."),
	}
}

// Roots returns the two roots in probe order.
func (r *Resolver) Roots() (assets, install string) {
	return r.assetsRoot, r.installRoot
}

// Resolve returns the candidate paths for id in probe order. The caller
// tries them in order and keeps the first one the engine can open.
func (r *Resolver) Resolve(id ID) (first, second string, err error) {
	namespace, name, err := id.Split()
	if err != nil {
		return "", "", err
	}
	file := name + "." + r.ext
	first = path.Join(r.assetsRoot, namespace, "music", file)
	second = path.Join(r.installRoot, namespace, "music", file)
	return first, second, nil
}
