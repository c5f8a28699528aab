package sampler

import "os"

// preadSource serves windows via ReadAt. It backs every platform
// without mmap support, and is also the automatic fallback on
// platforms that do support mmap when the mapping itself fails (pipes,
// special files, some network filesystems), retrying with buffered I/O
// rather than propagating the mmap error.
type preadSource struct {
	file *os.File
}

func newPreadSource(f *os.File) windowSource {
	return &preadSource{file: f}
}

func (p *preadSource) window(off int64, want int) ([]byte, int64, error) {
	buf := make([]byte, want)
	n, err := p.file.ReadAt(buf, off)
	if err != nil && n == 0 {
		return nil, off, err
	}
	return buf[:n], off, nil
}

func (p *preadSource) close() error {
	return p.file.Close()
}
