package storage

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOptionsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	opts, err := s.LoadOptions()
	if err != nil {
		t.Fatal(err)
	}
	if opts.HashMB != 16 {
		t.Errorf("default hash = %d, want 16", opts.HashMB)
	}

	opts.HashMB = 256
	if err := s.SaveOptions(opts); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadOptions()
	if err != nil {
		t.Fatal(err)
	}
	if loaded.HashMB != 256 {
		t.Errorf("loaded hash = %d, want 256", loaded.HashMB)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Error("save must stamp UpdatedAt")
	}
}

func TestAnnotateProgress(t *testing.T) {
	s := openTestStore(t)
	const input = "/data/positions.fen"

	n, err := s.LoadAnnotateProgress(input)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("unknown file progress = %d, want 0", n)
	}

	if err := s.SaveAnnotateProgress(input, 1234); err != nil {
		t.Fatal(err)
	}
	n, err = s.LoadAnnotateProgress(input)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1234 {
		t.Errorf("progress = %d, want 1234", n)
	}

	// Other files are unaffected.
	n, err = s.LoadAnnotateProgress("/data/other.fen")
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("other file progress = %d, want 0", n)
	}

	if err := s.ClearAnnotateProgress(input); err != nil {
		t.Fatal(err)
	}
	n, err = s.LoadAnnotateProgress(input)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("cleared progress = %d, want 0", n)
	}

	// Clearing twice is a no-op.
	if err := s.ClearAnnotateProgress(input); err != nil {
		t.Errorf("double clear: %v", err)
	}
}
