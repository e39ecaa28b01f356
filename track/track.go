// Package track identifies music assets by namespaced id and resolves them
// to the candidate file paths a storage backend is probed with.
package track

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrMalformedID is returned when an id has no namespace separator.
var ErrMalformedID = errors.New("track: malformed id")

// ID names a music asset as "namespace:name". The empty ID is the
// "no track" sentinel.
type ID string

// None is the empty sentinel.
const None ID = ""

// Split breaks the id into its namespace and name on the first ':'.
func (id ID) Split() (namespace, name string, err error) {
	namespace, name, ok := strings.Cut(string(id), ":")
	if !ok {
		return "", "", errors.Wrapf(ErrMalformedID, "%q", string(id))
	}
	return namespace, name, nil
}
