// Package cmd implements the command-line interface for tgrep.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/djherbis/times"
	"github.com/spf13/afero"
)

// defaultLogPath is used when PATH is omitted.
const defaultLogPath = "/logs/haproxy.log"

// mapDirName is the directory under $HOME that holds persisted time
// maps, one per fingerprinted log file.
const mapDirName = ".tgrepmapfiles"

// ensureMapDir creates $HOME/.tgrepmapfiles with mode 0777 if it does
// not already exist; an existing directory is accepted as-is. Built on
// afero rather than bare os calls so the directory-creation path has a
// testable seam.
func ensureMapDir(fs afero.Fs) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cmd: resolve home directory: %w", err)
	}
	dir := filepath.Join(home, mapDirName)
	if err := fs.MkdirAll(dir, 0777); err != nil {
		return "", fmt.Errorf("cmd: create map directory %s: %w", dir, err)
	}
	return dir, nil
}

// fingerprint computes a cheap identity for path: every decimal digit
// in the log's first line, concatenated in order as text (not summed —
// this keeps the result well-defined for arbitrarily long lines),
// followed by the file's modification time in seconds since the epoch.
// The result is the map file's base name, ".<N><M>.map".
func fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("cmd: open %s: %w", path, err)
	}
	defer f.Close()

	line, err := readFirstLine(f)
	if err != nil {
		return "", fmt.Errorf("cmd: read first line of %s: %w", path, err)
	}

	digits := digitsOf(line)

	// Modification time: djherbis/times rather than bare
	// os.FileInfo.ModTime(), for cross-platform ctime/mtime robustness —
	// tgrep only needs mtime, but the call is a one-liner and keeps the
	// fingerprint path uniform across exotic filesystems.
	t, err := times.Stat(path)
	if err != nil {
		return "", fmt.Errorf("cmd: stat %s: %w", path, err)
	}
	mtime := t.ModTime().Unix()

	return fmt.Sprintf(".%s%d.map", digits, mtime), nil
}

func readFirstLine(f *os.File) (string, error) {
	buf := make([]byte, 4096)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return "", err
	}
	buf = buf[:n]
	for i, b := range buf {
		if b == '\n' {
			return string(buf[:i]), nil
		}
	}
	return string(buf), nil
}

func digitsOf(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
