package history

import (
	"path/filepath"
	"testing"
	"time"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bench.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddList(t *testing.T) {
	s := openStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, cfg := range []string{"original", "optimized", "maximum"} {
		run := Run{
			RunAt:   base.Add(time.Duration(i) * time.Hour),
			Device:  "/dev/video0",
			Config:  cfg,
			Markers: i + 1,
			TimeMS:  10 + float64(i),
			FPS:     100 - float64(i),
		}
		if _, err := s.Add(run); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	// Newest first.
	if runs[0].Config != "maximum" || runs[2].Config != "original" {
		t.Errorf("unexpected order: %v", runs)
	}
	got := runs[2]
	if got.Device != "/dev/video0" || got.Markers != 1 || got.TimeMS != 10 || got.FPS != 100 {
		t.Errorf("round trip mangled the run: %+v", got)
	}
	if !got.RunAt.Equal(base) {
		t.Errorf("run_at %v, want %v", got.RunAt, base)
	}

	limited, err := s.List(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 || limited[0].Config != "maximum" {
		t.Errorf("limited list: %v", limited)
	}
}

func TestAddDefaultsRunAt(t *testing.T) {
	s := openStore(t)
	before := time.Now().Add(-time.Second)
	if _, err := s.Add(Run{Config: "original"}); err != nil {
		t.Fatal(err)
	}
	runs, err := s.List(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunAt.Before(before) {
		t.Errorf("zero RunAt not defaulted: %v", runs)
	}
}

func TestPrune(t *testing.T) {
	s := openStore(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := Run{RunAt: base.Add(time.Duration(i) * 24 * time.Hour), Config: "original"}
		if _, err := s.Add(run); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.Prune(base.Add(2 * 24 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("pruned %d runs, want 2", n)
	}
	runs, err := s.List(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || !runs[len(runs)-1].RunAt.Equal(base.Add(2*24*time.Hour)) {
		t.Errorf("unexpected survivors: %v", runs)
	}
}
