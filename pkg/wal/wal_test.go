package wal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func tmpWal(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.wal")
}

func TestAppendReplayRoundtrip(t *testing.T) {
	path := tmpWal(t)

	w, err := OpenWrite(path, 0)
	if err != nil {
		t.Fatalf("OpenWrite: %v", err)
	}
	payloads := [][]byte{[]byte("alpha"), []byte("beta"), []byte("gamma")}
	var last int64
	for _, p := range payloads {
		if last, err = w.Append(p); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := w.DurableOffset(); got != last {
		t.Fatalf("durable offset = %d, want %d", got, last)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var got [][]byte
	st, err := Replay(path, ReaderOptions{AllowTruncatedTail: true}, func(p []byte) error {
		cp := make([]byte, len(p))
		copy(cp, p)
		got = append(got, cp)
		return nil
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if st.Records != len(payloads) {
		t.Fatalf("records = %d, want %d", st.Records, len(payloads))
	}
	for i := range payloads {
		if string(got[i]) != string(payloads[i]) {
			t.Fatalf("record %d = %q, want %q", i, got[i], payloads[i])
		}
	}
	if st.TruncatedTail {
		t.Fatalf("unexpected truncated tail")
	}
}

func TestReplayMissingFileIsFreshStart(t *testing.T) {
	st, err := Replay(filepath.Join(t.TempDir(), "nope.wal"), ReaderOptions{AllowTruncatedTail: true}, func([]byte) error {
		t.Fatal("callback on missing file")
		return nil
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if st.Records != 0 {
		t.Fatalf("records = %d, want 0", st.Records)
	}
}

func TestTornTailDiscarded(t *testing.T) {
	path := tmpWal(t)

	w, err := OpenWrite(path, 0)
	if err != nil {
		t.Fatalf("OpenWrite: %v", err)
	}
	good, err := w.Append([]byte("complete record"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := w.Append([]byte("this record will be torn")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Cut into the middle of the second record's payload.
	if err := os.Truncate(path, good+headerSize+5); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	var records int
	st, err := Replay(path, ReaderOptions{AllowTruncatedTail: true}, func([]byte) error {
		records++
		return nil
	})
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if records != 1 {
		t.Fatalf("records = %d, want 1", records)
	}
	if !st.TruncatedTail {
		t.Fatalf("expected truncated tail")
	}
	if st.LastGoodOffset != good {
		t.Fatalf("last good offset = %d, want %d", st.LastGoodOffset, good)
	}

	// Repair and confirm appends continue from the cut.
	if err := TruncateTo(path, st.LastGoodOffset); err != nil {
		t.Fatalf("TruncateTo: %v", err)
	}
	w2, err := OpenWrite(path, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, err := w2.Append([]byte("after repair")); err != nil {
		t.Fatalf("Append after repair: %v", err)
	}
	if err := w2.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records = 0
	if _, err := Replay(path, ReaderOptions{AllowTruncatedTail: true}, func([]byte) error {
		records++
		return nil
	}); err != nil {
		t.Fatalf("Replay after repair: %v", err)
	}
	if records != 2 {
		t.Fatalf("records after repair = %d, want 2", records)
	}
}

func TestTornTailRejectedWhenNotAllowed(t *testing.T) {
	path := tmpWal(t)

	w, err := OpenWrite(path, 0)
	if err != nil {
		t.Fatalf("OpenWrite: %v", err)
	}
	if _, err := w.Append([]byte("only record")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := os.Truncate(path, 3); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	_, err = Replay(path, ReaderOptions{}, func([]byte) error { return nil })
	if !errors.Is(err, ErrCorruptHeader) {
		t.Fatalf("err = %v, want ErrCorruptHeader", err)
	}
}

func TestWaitDurable(t *testing.T) {
	path := tmpWal(t)

	w, err := OpenWrite(path, 0)
	if err != nil {
		t.Fatalf("OpenWrite: %v", err)
	}
	off, err := w.Append([]byte("payload"))
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- w.WaitDurable(off) }()

	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("WaitDurable: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
