// Package locator drives the sampler and time map to answer "what byte
// offset does second-of-range t start/end at", repeatedly narrowing a
// bracket by interpolation (or bisection at an unconfirmed exact hit)
// until the map can certify an answer.
package locator

import (
	"errors"
	"os"

	"github.com/Evansbee/tgrep/logx"
	"github.com/Evansbee/tgrep/sampler"
	"github.com/Evansbee/tgrep/timemap"
	"github.com/Evansbee/tgrep/timeparse"
)

// ErrOpenFailure reports that the log could not be opened, or its
// first line is not a valid timestamp — both fatal to Open. FindStart
// also wraps a failed window read in it.
var ErrOpenFailure = errors.New("locator: open failure")

// ErrNotFound is re-exported from timemap so callers never need to
// import that package just to compare errors.
var ErrNotFound = timemap.ErrNotFound

// Context owns everything one open log needs: the sampler, its time
// map, the day-of-month line 0 was stamped with, and the file's byte
// length. One Context serves one log; nothing here is a package-level
// global, lifting the "only one log at a time" restriction noted in
// the design notes.
type Context struct {
	sampler  *sampler.Sampler
	tm       *timemap.TimeMap
	dayStart int
	length   int64
	log      logx.Logger
}

// Open bootstraps a Context for path: it opens the log via the
// sampler, reads the day-of-month off line 0 to fix dayStart, then
// ingests a window centered at offset 0 and another centered at the
// file's last byte, anchoring the map's minimum and maximum observed
// times. tm is the time map to fill — typically freshly loaded from
// disk (possibly empty) via timemap.Load, or a fresh timemap.New() for
// a log with no persisted map yet.
func Open(path string, tm *timemap.TimeMap, log logx.Logger) (*Context, error) {
	if log == nil {
		log = logx.Noop()
	}
	s, err := sampler.Open(path, log)
	if err != nil {
		return nil, errors.Join(ErrOpenFailure, err)
	}

	c := &Context{sampler: s, tm: tm, log: log, length: s.Length()}

	if err := c.bootstrap(path); err != nil {
		s.Close()
		return nil, err
	}
	return c, nil
}

func (c *Context) bootstrap(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Join(ErrOpenFailure, err)
	}
	defer f.Close()

	head := make([]byte, 64)
	n, err := f.ReadAt(head, 0)
	if n == 0 && err != nil {
		return errors.Join(ErrOpenFailure, err)
	}
	head = head[:n]
	if !timeparse.IsValidLogLine(head) {
		return errors.Join(ErrOpenFailure, errors.New("locator: first line is not a valid timestamp"))
	}
	day, err := timeparse.ParseDayOfMonth(head)
	if err != nil {
		return errors.Join(ErrOpenFailure, err)
	}
	c.dayStart = day

	if err := c.sampler.ReadWindowCenter(0); err != nil {
		return errors.Join(ErrOpenFailure, err)
	}
	c.sampler.IngestWindow(c.tm, c.dayStart)

	if c.length > 0 {
		if err := c.sampler.ReadWindowCenter(c.length - 1); err != nil {
			return errors.Join(ErrOpenFailure, err)
		}
		c.sampler.IngestWindow(c.tm, c.dayStart)
	}

	c.log.Debug("locator: bootstrap complete, span=[%d,%d]", c.tm.MinTime(), c.tm.MaxTime())
	return nil
}

// Close releases the underlying sampler (file handle/mapping).
func (c *Context) Close() error {
	return c.sampler.Close()
}

// TimeMap exposes the underlying map, for persistence by the caller
// (timemap.Save) after queries complete.
func (c *Context) TimeMap() *timemap.TimeMap {
	return c.tm
}

// MinTime and MaxTime report the log's observed span after bootstrap.
func (c *Context) MinTime() int { return c.tm.MinTime() }
func (c *Context) MaxTime() int { return c.tm.MaxTime() }

// FindStart answers "byte offset of the first line at time t, or the
// first line after it", iterating interpolated/bisected samples until
// timemap.ConfirmedStart can certify an answer.
func (c *Context) FindStart(t int) (int64, error) {
	for {
		if off, err := timemap.ConfirmedStart(c.tm, t); err == nil {
			return off, nil
		}

		upper := c.tm.FindExact(t)
		if upper == nil {
			upper = c.tm.FindNext(t)
		}
		if upper == nil {
			return 0, ErrNotFound
		}

		lower := c.tm.FindPrev(t)
		if lower == nil {
			if upper.StartOff == 0 && upper.StartConfirmed {
				return 0, nil
			}
			return 0, ErrNotFound
		}

		pred := c.predict(t, lower, upper)
		if err := c.sample(pred); err != nil {
			return 0, errors.Join(ErrOpenFailure, err)
		}
	}
}

// FindEnd answers "byte offset of the last line at time t, or the last
// line before the next time". It drives FindStart(t+1) — which samples
// until the map brackets past t are confirmed, including (via the
// boundary-detection rule) confirming t's own end whenever an adjacent
// distinct time sits right next to it in the byte stream — then reads
// off ConfirmedEnd(t) directly; no separate sampling loop is needed
// once FindStart(t+1) has run.
func (c *Context) FindEnd(t int) (int64, error) {
	// A NotFound here is expected whenever t is the log's last observed
	// time (nothing exists after it); ConfirmedEnd below still
	// resolves via the file's own end-of-file boundary in that case.
	_, _ = c.FindStart(t + 1)

	return timemap.ConfirmedEnd(c.tm, t, c.length)
}

// predict chooses the next sample offset: bisect the byte gap on an
// exact-but-unconfirmed hit (straight interpolation degenerates to a
// linear walk at a bracket endpoint), otherwise interpolate the target
// time's fractional position between the bracketing entries.
func (c *Context) predict(t int, lower, upper *timemap.MapEntry) int64 {
	if t == upper.Time {
		return lower.EndOff + (upper.StartOff-lower.EndOff)/2
	}
	span := upper.Time - lower.Time
	if span == 0 {
		return lower.EndOff
	}
	frac := float64(t-lower.Time) / float64(span)
	gap := upper.StartOff - lower.EndOff
	return lower.EndOff + int64(frac*float64(gap))
}

func (c *Context) sample(off int64) error {
	if err := c.sampler.ReadWindowCenter(off); err != nil {
		return err
	}
	c.sampler.IngestWindow(c.tm, c.dayStart)
	return nil
}
