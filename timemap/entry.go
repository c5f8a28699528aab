// Package timemap holds the ordered, persisted time→byte-range map that
// the locator incrementally fills in: one MapEntry per distinct
// observed second, each carrying the best-known starting and ending
// byte offset for that second plus two confirmation bits that say
// whether those offsets are proven boundaries or merely the
// lowest/highest sample seen so far.
package timemap

import "errors"

// Unknown marks a MapEntry offset that has not been observed yet.
const Unknown int64 = -1

// ErrNotFound is returned by ConfirmedStart/ConfirmedEnd when the
// bracketing entries around a requested time do not yet (or can never)
// certify an answer.
var ErrNotFound = errors.New("timemap: time not found")

// MapEntry is one per distinct observed second. Invariants (enforced by
// callers — Sampler and Locator — not by the map itself, per the map's
// "raw mutation" contract):
//
//  1. StartOff <= EndOff whenever both are known.
//  2. Two fully-confirmed entries adjacent in time order satisfy
//     E1.EndOff+1 == E2.StartOff.
//  3. StartOff == 0 implies StartConfirmed; EndOff == fileLength-1
//     implies EndConfirmed.
//  4. A confirmed bit never reverts to unconfirmed; an unconfirmed
//     StartOff only decreases, an unconfirmed EndOff only increases.
type MapEntry struct {
	Time           int
	StartOff       int64
	EndOff         int64
	StartConfirmed bool
	EndConfirmed   bool
}

func newEntry(t int) *MapEntry {
	return &MapEntry{Time: t, StartOff: Unknown, EndOff: Unknown}
}

// ConfirmedStart is the "is this answer trustworthy?" predicate for
// find_start, expressed as one pure function over the (prev, exact,
// next) triple rather than inlined at each call site.
func ConfirmedStart(m *TimeMap, t int) (int64, error) {
	if e := m.FindExact(t); e != nil {
		if e.StartConfirmed {
			return e.StartOff, nil
		}
		return 0, ErrNotFound
	}
	prev := m.FindPrev(t)
	next := m.FindNext(t)
	if prev != nil && next != nil &&
		prev.EndConfirmed && next.StartConfirmed &&
		prev.EndOff+1 == next.StartOff {
		return next.StartOff, nil
	}
	if prev == nil && next != nil && next.StartOff == 0 && next.StartConfirmed {
		return 0, nil
	}
	return 0, ErrNotFound
}

// ConfirmedEnd mirrors ConfirmedStart for find_end, using
// EndOff/EndConfirmed and the file's last valid byte as its own natural
// boundary.
func ConfirmedEnd(m *TimeMap, t int, fileLength int64) (int64, error) {
	if e := m.FindExact(t); e != nil {
		if e.EndConfirmed {
			return e.EndOff, nil
		}
		return 0, ErrNotFound
	}
	prev := m.FindPrev(t)
	next := m.FindNext(t)
	if prev != nil && next != nil &&
		prev.EndConfirmed && next.StartConfirmed &&
		prev.EndOff+1 == next.StartOff {
		return prev.EndOff, nil
	}
	if next == nil && prev != nil && prev.EndOff == fileLength-1 && prev.EndConfirmed {
		return fileLength - 1, nil
	}
	return 0, ErrNotFound
}
