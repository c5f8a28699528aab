package sampler

import (
	"os"
	"testing"

	"github.com/Evansbee/tgrep/logx"
	"github.com/Evansbee/tgrep/timemap"
)

// buildLog constructs a synthetic log with 22-byte-wide lines (a
// 15-byte timestamp prefix plus a 7-byte " xxxxx\n" payload): 10 lines
// at 12:00:00, 10 at 12:00:01, 10 at 12:00:02, then 1 at 12:00:05.
func buildLog(t *testing.T) (path string, lineWidth int) {
	t.Helper()
	line := func(hh, mm, ss int) string {
		return "Jan  1 " + pad2(hh) + ":" + pad2(mm) + ":" + pad2(ss) + " xxxxx\n"
	}
	var contents string
	for i := 0; i < 10; i++ {
		contents += line(12, 0, 0)
	}
	for i := 0; i < 10; i++ {
		contents += line(12, 0, 1)
	}
	for i := 0; i < 10; i++ {
		contents += line(12, 0, 2)
	}
	contents += line(12, 0, 5)

	dir := t.TempDir()
	path = dir + "/test.log"
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path, len(line(12, 0, 0))
}

func pad2(n int) string {
	if n < 10 {
		return "0" + string(rune('0'+n))
	}
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func TestIngestWindowBootstrap(t *testing.T) {
	path, width := buildLog(t)

	s, err := Open(path, logx.Noop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	tm := timemap.New()
	if err := s.ReadWindowCenter(0); err != nil {
		t.Fatal(err)
	}
	dayStart := 1
	s.IngestWindow(tm, dayStart)

	e := tm.FindExact(12 * 3600)
	if e == nil {
		t.Fatal("expected an entry for 12:00:00")
	}
	if e.StartOff != 0 {
		t.Fatalf("StartOff = %d, want 0", e.StartOff)
	}
	if !e.StartConfirmed {
		t.Fatal("StartOff at file offset 0 must be confirmed")
	}
	// 10 lines of width bytes each: the 12:00:00 block ends at
	// 10*width - 1, and the next block (12:00:01) begins immediately
	// after, so the boundary-detection rule confirms both sides.
	if want := int64(10*width - 1); e.EndOff != want {
		t.Fatalf("EndOff = %d, want %d", e.EndOff, want)
	}
	if !e.EndConfirmed {
		t.Fatal("expected EndConfirmed after observing the next block's distinct timestamp")
	}

	next := tm.FindExact(12*3600 + 1)
	if next == nil || next.StartOff != int64(10*width) || !next.StartConfirmed {
		t.Fatalf("unexpected next entry: %+v", next)
	}
}

func TestReadWindowCenterClampsAtZero(t *testing.T) {
	path, _ := buildLog(t)
	s, err := Open(path, logx.Noop())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.ReadWindowCenter(10); err != nil {
		t.Fatal(err)
	}
	start, _ := s.Window()
	if start != 0 {
		t.Fatalf("window start = %d, want 0 (clamped)", start)
	}
}
