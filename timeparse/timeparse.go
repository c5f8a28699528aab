// Package timeparse recognizes the syslog-style line prefix
// ("MMM dD HH:MM:SS ...") and turns it into a seconds-of-range integer,
// and turns user-supplied search times ("H[:M[:S]][-H[:M[:S]]]") into
// the same integer space.
package timeparse

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotTimestamp is returned whenever a byte slice or string does not
// have the structural shape of a recognized timestamp. Callers skip
// such lines rather than aborting.
var ErrNotTimestamp = errors.New("timeparse: not a timestamp")

// ErrBadSyntax is returned by ValidateSyntax for a TIME argument that
// does not have the expected "digits, at most one hyphen, at most four
// colons, at most 12 digits" shape.
var ErrBadSyntax = errors.New("timeparse: invalid time syntax")

// prefixLen is the number of bytes IsValidLogLine inspects: 3 month
// letters + space + 2-column day field + space + "HH:MM:SS".
const prefixLen = 15

// SecondsPerDay is the width of a single calendar day in the
// seconds-of-range integer space. ParseLogTime adds it to day-2 lines,
// and cmd's runQuery uses it to split a range that wraps midnight.
const SecondsPerDay = 86400

// IsValidLogLine reports whether b begins with a syslog-style
// timestamp prefix: three letters, a space, a two-column day (either
// "<space><digit>" or two digits), a space, and an "HH:MM:SS" clock.
// It does no semantic validation beyond digit/letter shape, and it
// never panics on a short slice.
func IsValidLogLine(b []byte) bool {
	if len(b) < prefixLen {
		return false
	}
	if !isAlpha(b[0]) || !isAlpha(b[1]) || !isAlpha(b[2]) {
		return false
	}
	if b[3] != ' ' {
		return false
	}
	if !validDayField(b[4], b[5]) {
		return false
	}
	if b[6] != ' ' {
		return false
	}
	return validClock(b[7:15])
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// validDayField checks the two-column day: " D" (space then digit) or
// "DD" (two digits).
func validDayField(a, b byte) bool {
	if a == ' ' {
		return isDigit(b)
	}
	return isDigit(a) && isDigit(b)
}

// validClock checks the fixed 8-byte "HH:MM:SS" shape.
func validClock(c []byte) bool {
	if len(c) != 8 {
		return false
	}
	return isDigit(c[0]) && isDigit(c[1]) && c[2] == ':' &&
		isDigit(c[3]) && isDigit(c[4]) && c[5] == ':' &&
		isDigit(c[6]) && isDigit(c[7])
}

// ParseDayOfMonth reads the two-column day field at b[4:6]. It does not
// re-check the rest of the prefix shape; callers that have not already
// confirmed IsValidLogLine(b) should call it first.
func ParseDayOfMonth(b []byte) (int, error) {
	if len(b) < 6 {
		return 0, ErrNotTimestamp
	}
	if b[4] == ' ' {
		if !isDigit(b[5]) {
			return 0, ErrNotTimestamp
		}
		return int(b[5] - '0'), nil
	}
	if !isDigit(b[4]) || !isDigit(b[5]) {
		return 0, ErrNotTimestamp
	}
	return int(b[4]-'0')*10 + int(b[5]-'0'), nil
}

// ParseLogTime parses the timestamp prefix of b into a seconds-of-range
// value: HH*3600 + MM*60 + SS, plus SecondsPerDay if the line's
// day-of-month differs from dayStart. This is monotonic across a single
// midnight crossing only (see spec Non-goals — behavior across two or
// more crossings is undefined).
func ParseLogTime(b []byte, dayStart int) (int, error) {
	if !IsValidLogLine(b) {
		return 0, ErrNotTimestamp
	}
	day, err := ParseDayOfMonth(b)
	if err != nil {
		return 0, err
	}
	hh := int(b[7]-'0')*10 + int(b[8]-'0')
	mm := int(b[10]-'0')*10 + int(b[11]-'0')
	ss := int(b[13]-'0')*10 + int(b[14]-'0')
	secs := hh*3600 + mm*60 + ss
	if day != dayStart {
		secs += SecondsPerDay
	}
	return secs, nil
}

// ParseSearchTime parses a "H", "H:M" or "H:M:S" user-supplied time
// fragment into seconds-of-day, filling any missing minute/second field
// with pad.
func ParseSearchTime(text string, pad int) (int, error) {
	fields := strings.Split(text, ":")
	if len(fields) == 0 || len(fields) > 3 {
		return 0, ErrBadSyntax
	}
	vals := [3]int{0, pad, pad}
	for i, f := range fields {
		if f == "" {
			return 0, ErrBadSyntax
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return 0, ErrBadSyntax
		}
		vals[i] = n
	}
	if len(fields) < 2 {
		vals[1] = pad
	}
	if len(fields) < 3 {
		vals[2] = pad
	}
	return vals[0]*3600 + vals[1]*60 + vals[2], nil
}

// ExpandRange expands a user TIME argument, "A-B" or bare "A", into the
// (lo, hi) seconds-of-day bracket: "A-B" becomes (parse(A,0),
// parse(B,59)); bare "A" becomes (parse(A,0), parse(A,59)).
func ExpandRange(text string) (lo, hi int, err error) {
	if err := ValidateSyntax(text); err != nil {
		return 0, 0, err
	}
	if idx := strings.IndexByte(text, '-'); idx >= 0 {
		lo, err = ParseSearchTime(text[:idx], 0)
		if err != nil {
			return 0, 0, err
		}
		hi, err = ParseSearchTime(text[idx+1:], 59)
		if err != nil {
			return 0, 0, err
		}
		return lo, hi, nil
	}
	lo, err = ParseSearchTime(text, 0)
	if err != nil {
		return 0, 0, err
	}
	hi, err = ParseSearchTime(text, 59)
	if err != nil {
		return 0, 0, err
	}
	return lo, hi, nil
}

// ValidateSyntax checks the raw shape of a TIME argument before it is
// ever parsed: digits, at most one hyphen, at most four colons, at most
// 12 digits overall. This is the CLI-facing "timestamp-syntax
// validation" collaborator the core locator never sees.
func ValidateSyntax(text string) error {
	if text == "" {
		return ErrBadSyntax
	}
	var hyphens, colons, digits int
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case isDigit(c):
			digits++
		case c == '-':
			hyphens++
		case c == ':':
			colons++
		default:
			return ErrBadSyntax
		}
	}
	if hyphens > 1 || colons > 4 || digits > 12 || digits == 0 {
		return ErrBadSyntax
	}
	return nil
}
