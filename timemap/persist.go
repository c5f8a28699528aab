package timemap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// boolInt encodes a confirmation bit as 0/1 for the checksummed text
// format.
func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func intBool(n int64) bool {
	return n != 0
}

// checksum is an additive checksum: the sum of the five numeric
// fields. It is a weak, casual-edit deterrent only — not tamper-proof.
func checksum(t int, startOff int64, startConfirmed bool, endOff int64, endConfirmed bool) int64 {
	return int64(t) + startOff + boolInt(startConfirmed) + endOff + boolInt(endConfirmed)
}

// Save writes one line per entry, in time order, to path:
//
//	<time> <start_off> <start_confirmed> <end_off> <end_confirmed> <checksum>
//
// A short write is reported to the caller (logged at debug level by
// the caller, not here — this package has no logger dependency) so the
// affected line can simply fail its checksum on the next Load.
func (m *TimeMap) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range m.Entries() {
		cs := checksum(e.Time, e.StartOff, e.StartConfirmed, e.EndOff, e.EndConfirmed)
		line := fmt.Sprintf("%d %d %d %d %d %d\n",
			e.Time, e.StartOff, boolInt(e.StartConfirmed), e.EndOff, boolInt(e.EndConfirmed), cs)
		n, err := w.WriteString(line)
		if err != nil {
			return err
		}
		if n != len(line) {
			return io.ErrShortWrite
		}
	}
	return w.Flush()
}

// Load reads a map file written by Save. Any line whose first five
// fields do not sum to the sixth (checksum) is silently discarded; the
// rest of the file is still consumed.
func Load(path string) (*TimeMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := New()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		e, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		m.insertLoaded(e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	m.finalizeLoad()
	return m, nil
}

func parseLine(line string) (*MapEntry, bool) {
	fields := strings.Fields(line)
	if len(fields) != 6 {
		return nil, false
	}
	nums := make([]int64, 6)
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, false
		}
		nums[i] = n
	}
	t, startOff, startConfirmed, endOff, endConfirmed, cs := nums[0], nums[1], nums[2], nums[3], nums[4], nums[5]
	if checksum(int(t), startOff, intBool(startConfirmed), endOff, intBool(endConfirmed)) != cs {
		return nil, false
	}
	return &MapEntry{
		Time:           int(t),
		StartOff:       startOff,
		EndOff:         endOff,
		StartConfirmed: intBool(startConfirmed),
		EndConfirmed:   intBool(endConfirmed),
	}, true
}
