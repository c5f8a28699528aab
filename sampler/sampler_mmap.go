//go:build (linux || darwin) && !wasm

package sampler

import (
	"os"
	"syscall"
)

// mmapSource maps the whole file once and serves windows as zero-copy
// slices into that mapping.
type mmapSource struct {
	file *os.File
	data []byte
}

func newMmapSource(f *os.File, length int64) (windowSource, error) {
	if length == 0 {
		// syscall.Mmap rejects a zero-length mapping; an empty log
		// has no windows to serve anyway.
		return &mmapSource{file: f, data: nil}, nil
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(length), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}
	return &mmapSource{file: f, data: data}, nil
}

func (m *mmapSource) window(off int64, want int) ([]byte, int64, error) {
	if off < 0 {
		off = 0
	}
	if off > int64(len(m.data)) {
		off = int64(len(m.data))
	}
	end := off + int64(want)
	if end > int64(len(m.data)) {
		end = int64(len(m.data))
	}
	return m.data[off:end], off, nil
}

func (m *mmapSource) close() error {
	var err error
	if m.data != nil {
		err = syscall.Munmap(m.data)
	}
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	return err
}
