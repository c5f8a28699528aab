//go:build !((linux || darwin) && !wasm)

package sampler

import (
	"errors"
	"os"
)

var errMmapUnsupported = errors.New("sampler: mmap not supported on this platform")

// newMmapSource always fails on platforms without an mmap backend,
// triggering Open's automatic fallback to preadSource.
func newMmapSource(f *os.File, length int64) (windowSource, error) {
	return nil, errMmapUnsupported
}
