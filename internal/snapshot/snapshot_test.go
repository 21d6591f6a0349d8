package snapshot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func sample() *Snapshot {
	return &Snapshot{
		LastSeq:     12,
		LastTradeID: 4,
		LastTsMs:    1700000000123,
		WALOffset:   2048,
		Books: []BookState{
			{
				Symbol: "BTC-USD",
				Bids: []RestingOrder{
					{Seq: 9, Side: "BUY", Price: "101", RemainingQty: "2", ClientOrderID: "b"},
					{Seq: 3, Side: "BUY", Price: "100", RemainingQty: "1"},
				},
				Asks: []RestingOrder{
					{Seq: 11, Side: "SELL", Price: "102.5", RemainingQty: "0.5"},
				},
			},
		},
		Trades: []SymbolTrades{
			{
				Symbol: "BTC-USD",
				Trades: []Trade{
					{TradeID: 4, Symbol: "BTC-USD", Price: "101", Qty: "1", MakerSeq: 9, TakerSeq: 12, TakerSide: "SELL", TsMs: 1700000000123},
				},
			},
		},
	}
}

func TestWriteLoadRoundtripBytesStable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")

	s := sample()
	if err := Write(path, s); err != nil {
		t.Fatalf("Write: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := Encode(loaded)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("snapshot -> load -> encode is not byte identical")
	}
}

func TestLoadMissingIsColdStart(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "snapshot.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s != nil {
		t.Fatalf("expected nil snapshot for missing file")
	}
}

func TestLoadRejectsPartialFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")

	if err := Write(path, sample()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)/2], 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("partial snapshot accepted")
	}
}

func TestWriteLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot.json")
	if err := Write(path, sample()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}
