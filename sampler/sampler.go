// Package sampler reads fixed-size windows of a log file centered on a
// predicted byte offset and folds every timestamped line that starts in
// that window into a timemap.TimeMap.
//
// It maps the whole file once and serves windows as zero-copy slices
// on platforms that support it, via a mmap-backed windowSource (see
// sampler_mmap.go), and transparently falls back to a pread-backed one
// (see sampler_pread.go) everywhere else, or whenever Mmap itself
// errors (pipes, special files, network filesystems).
package sampler

import (
	"bytes"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/Evansbee/tgrep/logx"
	"github.com/Evansbee/tgrep/timemap"
	"github.com/Evansbee/tgrep/timeparse"
)

// WindowSize is the fixed byte window the Sampler reads per sample.
const WindowSize = 4096

// windowSource abstracts how bytes are actually fetched for a window;
// see sampler_mmap.go and sampler_pread.go for the two implementations.
type windowSource interface {
	// window returns up to want bytes starting at off, and the start
	// offset actually used. The Sampler clamps off to [0, length]
	// before calling it.
	window(off int64, want int) (data []byte, start int64, err error)
	close() error
}

// Sampler holds the most recently read byte window of one log (one
// window per Sampler, with no concurrent mutation). The window is a
// slice of the mapping on the mmap backend and a freshly read buffer on
// the pread backend.
type Sampler struct {
	src    windowSource
	length int64
	log    logx.Logger

	winStart int64
	winEnd   int64
	buf      []byte
}

// Open opens path for windowed reads, preferring the mmap backend and
// falling back to pread if mmap fails for any reason.
func Open(path string, log logx.Logger) (*Sampler, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	length := stat.Size()

	src, err := newMmapSource(f, length)
	if err != nil {
		log.Debug("sampler: mmap unavailable (%v), falling back to pread", err)
		src = newPreadSource(f)
	}

	return &Sampler{src: src, length: length, log: log}, nil
}

// Close releases the underlying file/mapping.
func (s *Sampler) Close() error {
	return s.src.close()
}

// Length reports the log's byte length.
func (s *Sampler) Length() int64 {
	return s.length
}

// Window returns the most recently read window's byte range.
func (s *Sampler) Window() (start, end int64) {
	return s.winStart, s.winEnd
}

// ReadWindowStart positions the window beginning at off (clamped to
// [0, length]) and reads up to WindowSize bytes.
func (s *Sampler) ReadWindowStart(off int64) error {
	if off < 0 {
		off = 0
	}
	if off > s.length {
		off = s.length
	}
	data, start, err := s.src.window(off, WindowSize)
	if err != nil {
		return err
	}
	s.buf = data
	s.winStart = start
	s.winEnd = start + int64(len(data))
	s.log.Debug("sampler: read window [%s, %s) (%s)",
		humanize.Comma(s.winStart), humanize.Comma(s.winEnd), humanize.Bytes(uint64(len(data))))
	return nil
}

// ReadWindowCenter shifts off left by WindowSize/2 (clamped at 0) and
// reads a window from there, so a predicted offset lands roughly
// mid-window — the predicted time's neighbors on both sides are then
// visible in the same read, which is what lets IngestWindow observe a
// boundary transition in one shot.
func (s *Sampler) ReadWindowCenter(off int64) error {
	shifted := off - WindowSize/2
	if shifted < 0 {
		shifted = 0
	}
	return s.ReadWindowStart(shifted)
}

// IngestWindow folds every timestamped line that starts in the
// most-recently-read window into tm, using dayStart to disambiguate
// day-1 from day-2 lines. A line cut off by the window's end is folded
// too, with the window's end offset as its end.
func (s *Sampler) IngestWindow(tm *timemap.TimeMap, dayStart int) {
	buf := s.buf
	winStart := s.winStart
	fileLength := s.length

	var prev *timemap.MapEntry
	p := 0
	for p < len(buf) {
		if !timeparse.IsValidLogLine(buf[p:]) {
			nl := bytes.IndexByte(buf[p:], '\n')
			if nl < 0 {
				break
			}
			p += nl + 1
			prev = nil
			continue
		}

		t, err := timeparse.ParseLogTime(buf[p:], dayStart)
		if err != nil {
			nl := bytes.IndexByte(buf[p:], '\n')
			if nl < 0 {
				break
			}
			p += nl + 1
			prev = nil
			continue
		}

		lineStart := winStart + int64(p)
		e := tm.GetOrCreate(t)

		if e.StartOff == timemap.Unknown || lineStart < e.StartOff {
			e.StartOff = lineStart
			if lineStart == 0 {
				e.StartConfirmed = true
			}
		}

		nl := bytes.IndexByte(buf[p:], '\n')
		var lineEndRel int
		if nl < 0 {
			lineEndRel = len(buf)
		} else {
			lineEndRel = p + nl
		}
		lineEnd := winStart + int64(lineEndRel)

		if lineEnd > e.EndOff {
			e.EndOff = lineEnd
			if lineEnd == fileLength-1 {
				e.EndConfirmed = true
			}
		}

		if prev != nil && prev.Time != e.Time {
			prev.EndConfirmed = true
			e.StartConfirmed = true
		}
		prev = e

		if nl < 0 {
			p = len(buf)
		} else {
			p = lineEndRel + 1
		}
	}
}
