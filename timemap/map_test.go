package timemap

import (
	"os"
	"testing"
)

func TestGetOrCreateOrdering(t *testing.T) {
	m := New()
	times := []int{50, 10, 30, 20, 40}
	for _, tm := range times {
		m.GetOrCreate(tm)
	}
	entries := m.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Time >= entries[i].Time {
			t.Fatalf("entries not sorted: %v", entries)
		}
	}
	if got := m.GetOrCreate(30); got.Time != 30 {
		t.Fatalf("GetOrCreate(30) returned wrong entry: %+v", got)
	}
	if m.Len() != len(times) {
		t.Fatalf("Len() = %d, want %d (duplicate insert must not grow the map)", m.Len(), len(times))
	}
}

func TestFindExactPrevNext(t *testing.T) {
	m := New()
	for _, tm := range []int{10, 20, 30} {
		m.GetOrCreate(tm)
	}

	if e := m.FindExact(20); e == nil || e.Time != 20 {
		t.Fatalf("FindExact(20) = %v", e)
	}
	if e := m.FindExact(25); e != nil {
		t.Fatalf("FindExact(25) = %v, want nil", e)
	}

	if e := m.FindPrev(20); e == nil || e.Time != 10 {
		t.Fatalf("FindPrev(20) = %v, want time 10", e)
	}
	if e := m.FindPrev(10); e != nil {
		t.Fatalf("FindPrev(10) = %v, want nil (strict)", e)
	}
	if e := m.FindPrev(25); e == nil || e.Time != 20 {
		t.Fatalf("FindPrev(25) = %v, want time 20", e)
	}

	if e := m.FindNext(20); e == nil || e.Time != 30 {
		t.Fatalf("FindNext(20) = %v, want time 30", e)
	}
	if e := m.FindNext(30); e != nil {
		t.Fatalf("FindNext(30) = %v, want nil (strict)", e)
	}
	if e := m.FindNext(25); e == nil || e.Time != 30 {
		t.Fatalf("FindNext(25) = %v, want time 30", e)
	}
}

func TestMinMaxTime(t *testing.T) {
	m := New()
	for _, tm := range []int{30, 10, 20} {
		m.GetOrCreate(tm)
	}
	if m.MinTime() != 10 {
		t.Fatalf("MinTime() = %d, want 10", m.MinTime())
	}
	if m.MaxTime() != 30 {
		t.Fatalf("MaxTime() = %d, want 30", m.MaxTime())
	}
}

func TestConfirmedStartExactAndBracket(t *testing.T) {
	m := New()
	a := m.GetOrCreate(10)
	a.StartOff, a.EndOff, a.StartConfirmed, a.EndConfirmed = 0, 9, true, true
	b := m.GetOrCreate(12)
	b.StartOff, b.EndOff, b.StartConfirmed, b.EndConfirmed = 10, 19, true, true

	if off, err := ConfirmedStart(m, 10); err != nil || off != 0 {
		t.Fatalf("ConfirmedStart(10) = (%d, %v)", off, err)
	}
	// 11 is absent but ruled out: a.EndOff+1 == b.StartOff and both
	// sides are confirmed, so the answer is b.StartOff.
	if off, err := ConfirmedStart(m, 11); err != nil || off != 10 {
		t.Fatalf("ConfirmedStart(11) = (%d, %v), want (10, nil)", off, err)
	}
}

func TestConfirmedStartZeroOffsetShortcut(t *testing.T) {
	m := New()
	b := m.GetOrCreate(5)
	b.StartOff, b.StartConfirmed = 0, true

	off, err := ConfirmedStart(m, 3)
	if err != nil || off != 0 {
		t.Fatalf("ConfirmedStart(3) = (%d, %v), want (0, nil)", off, err)
	}
}

func TestConfirmedEndMirror(t *testing.T) {
	m := New()
	a := m.GetOrCreate(10)
	a.StartOff, a.EndOff, a.StartConfirmed, a.EndConfirmed = 0, 9, true, true

	const fileLen = 10
	off, err := ConfirmedEnd(m, 10, fileLen)
	if err != nil || off != 9 {
		t.Fatalf("ConfirmedEnd(10) = (%d, %v), want (9, nil)", off, err)
	}

	a.EndOff = fileLen - 1
	off, err = ConfirmedEnd(m, 10, fileLen)
	if err != nil || off != fileLen-1 {
		t.Fatalf("ConfirmedEnd(10) = (%d, %v), want (%d, nil)", off, err, fileLen-1)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/map.txt"

	m := New()
	e1 := m.GetOrCreate(100)
	e1.StartOff, e1.EndOff, e1.StartConfirmed, e1.EndConfirmed = 0, 21, true, true
	e2 := m.GetOrCreate(101)
	e2.StartOff, e2.EndOff = 22, -1

	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, tm := range []int{100, 101} {
		want := m.FindExact(tm)
		got := loaded.FindExact(tm)
		if got == nil {
			t.Fatalf("time %d missing after reload", tm)
		}
		if *got != *want {
			t.Fatalf("time %d: got %+v, want %+v", tm, got, want)
		}
	}
}

func TestLoadSkipsCorruptLines(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/map.txt"
	contents := "100 0 1 21 1 999\n" + // wrong checksum, must be skipped
		"101 22 0 -1 0 122\n" // correct checksum (101+22+0-1+0=122)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if e := m.FindExact(100); e != nil {
		t.Fatalf("corrupt line for time 100 should have been skipped, got %+v", e)
	}
	if e := m.FindExact(101); e == nil {
		t.Fatalf("valid line for time 101 should have loaded")
	}
}
