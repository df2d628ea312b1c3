package geom

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies a dataset by its ids and commands, in order. It keys
// cached metrics tables.
func Fingerprint(paths []PathRecord) string {
	d := xxhash.New()
	for _, p := range paths {
		_, _ = d.WriteString(p.ID)
		_, _ = d.Write([]byte{0})
		_, _ = d.WriteString(p.Commands)
		_, _ = d.Write([]byte{0})
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
