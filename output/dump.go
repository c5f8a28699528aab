// Package output writes the one thing tgrep's core never does itself:
// printing the resolved byte range to standard output.
package output

import (
	"bufio"
	"io"
	"os"
)

// dumpBufSize mirrors sampler.WindowSize; no invariant ties the two
// together, it is just a convenient chunk size for streaming a
// possibly large byte range to stdout without buffering it all in
// memory.
const dumpBufSize = 4096

// Dump writes path's bytes in [start, end] (both inclusive, matching
// the locator's end-offset convention: the index of the last line's
// terminating newline) to standard output.
func Dump(path string, start, end int64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if end < start {
		return nil
	}

	w := bufio.NewWriter(os.Stdout)
	remaining := end - start + 1
	section := io.NewSectionReader(f, start, remaining)
	buf := make([]byte, dumpBufSize)

	if _, err := io.CopyBuffer(w, section, buf); err != nil {
		return err
	}
	return w.Flush()
}
