package engine

import (
	"os"
	"path/filepath"
	"testing"

	"matchcore.io/internal/book"
	"matchcore.io/internal/journal"
	"matchcore.io/internal/num"
	"matchcore.io/pkg/wal"
)

// Decimals are pointer-backed, so restored state is compared through
// its canonical rendering rather than with ==.
func topEqual(a, b book.TopOfBook) bool {
	return num.Canon(a.BidPrice) == num.Canon(b.BidPrice) &&
		num.Canon(a.BidQty) == num.Canon(b.BidQty) &&
		num.Canon(a.AskPrice) == num.Canon(b.AskPrice) &&
		num.Canon(a.AskQty) == num.Canon(b.AskQty)
}

func tradesEqual(a, b []Trade) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		x, y := a[i], b[i]
		if x.ID != y.ID || x.Symbol != y.Symbol ||
			x.MakerSeq != y.MakerSeq || x.TakerSeq != y.TakerSeq ||
			x.TakerSide != y.TakerSide || x.TsMs != y.TsMs ||
			num.Canon(x.Price) != num.Canon(y.Price) ||
			num.Canon(x.Qty) != num.Canon(y.Qty) {
			return false
		}
	}
	return true
}

// crash drops the engine without snapshotting, leaving only the WAL
// behind, the way a kill -9 would.
func crash(t *testing.T, e *Engine) {
	t.Helper()
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	close(e.stopJobs)
	e.jobsWG.Wait()
	if err := e.w.Close(); err != nil {
		t.Fatalf("close wal: %v", err)
	}
}

func reopen(t *testing.T, dir string) (*Engine, RestoreStats) {
	t.Helper()
	e, st, err := Open(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	return e, st
}

func bookTrades(t *testing.T, e *Engine, symbol string) []Trade {
	t.Helper()
	trades, _ := e.RecentTrades(symbol, 0, MaxTradesLimit)
	return trades
}

func TestCleanShutdownRestoresFromSnapshot(t *testing.T) {
	dir := t.TempDir()
	e, _, err := Open(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	submit(t, e, "BTC-USD", book.SideSell, "100", "2")
	submit(t, e, "BTC-USD", book.SideBuy, "100", "0.5")
	submit(t, e, "BTC-USD", book.SideBuy, "99", "3")
	wantTop := e.TopOfBook("BTC-USD")
	wantTrades := bookTrades(t, e, "BTC-USD")

	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Clean shutdown truncates the log; the snapshot carries everything.
	if fi, err := os.Stat(filepath.Join(dir, walFileName)); err != nil || fi.Size() != 0 {
		t.Fatalf("wal after close: size=%v err=%v", fi, err)
	}

	e2, st := reopen(t, dir)
	defer e2.Close()

	if !st.SnapshotPresent || st.WALRecords != 0 {
		t.Fatalf("restore stats = %+v", st)
	}
	if got := e2.TopOfBook("BTC-USD"); !topEqual(got, wantTop) {
		t.Fatalf("top after restore = %+v, want %+v", got, wantTop)
	}
	if got := bookTrades(t, e2, "BTC-USD"); !tradesEqual(got, wantTrades) {
		t.Fatalf("trades after restore = %+v, want %+v", got, wantTrades)
	}

	// Counters continue where they left off.
	res := submit(t, e2, "BTC-USD", book.SideSell, "100", "1")
	if res.Seq != 4 {
		t.Fatalf("seq after restore = %d, want 4", res.Seq)
	}
}

func TestCrashReplaysWAL(t *testing.T) {
	dir := t.TempDir()
	e, _, err := Open(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	submit(t, e, "BTC-USD", book.SideSell, "100", "2")
	submit(t, e, "ETH-USD", book.SideBuy, "10", "5")
	submit(t, e, "BTC-USD", book.SideBuy, "101", "3")
	wantTop := e.TopOfBook("BTC-USD")
	wantTrades := bookTrades(t, e, "BTC-USD")

	crash(t, e)

	e2, st := reopen(t, dir)
	defer e2.Close()

	if st.SnapshotPresent {
		t.Fatalf("unexpected snapshot: %+v", st)
	}
	if st.WALRecords == 0 {
		t.Fatal("no wal records replayed")
	}
	if got := e2.TopOfBook("BTC-USD"); !topEqual(got, wantTop) {
		t.Fatalf("top after replay = %+v, want %+v", got, wantTop)
	}
	if got := bookTrades(t, e2, "BTC-USD"); !tradesEqual(got, wantTrades) {
		t.Fatalf("trades after replay = %+v, want %+v", got, wantTrades)
	}
	if got := e2.TopOfBook("ETH-USD"); num.Canon(got.BidPrice) != "10" {
		t.Fatalf("ETH bid = %s", num.Canon(got.BidPrice))
	}
	if st.WALTradesRederived != 0 {
		t.Fatalf("rederived = %d, want 0", st.WALTradesRederived)
	}
}

func TestSnapshotPlusWALTail(t *testing.T) {
	dir := t.TempDir()
	e, _, err := Open(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	submit(t, e, "BTC-USD", book.SideSell, "100", "2")
	submit(t, e, "BTC-USD", book.SideBuy, "100", "1")
	if err := e.WriteSnapshot(); err != nil {
		t.Fatalf("WriteSnapshot: %v", err)
	}
	submit(t, e, "BTC-USD", book.SideBuy, "100", "1")
	submit(t, e, "BTC-USD", book.SideSell, "102", "4")
	wantTop := e.TopOfBook("BTC-USD")
	wantTrades := bookTrades(t, e, "BTC-USD")

	crash(t, e)

	e2, st := reopen(t, dir)
	defer e2.Close()

	if !st.SnapshotPresent {
		t.Fatal("snapshot not used")
	}
	if got := e2.TopOfBook("BTC-USD"); !topEqual(got, wantTop) {
		t.Fatalf("top = %+v, want %+v", got, wantTop)
	}
	got := bookTrades(t, e2, "BTC-USD")
	if !tradesEqual(got, wantTrades) {
		t.Fatalf("trades = %+v, want %+v", got, wantTrades)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("trade ids = %+v, want 1 and 2 exactly once", got)
	}
}

func TestTornTailRepairedOnOpen(t *testing.T) {
	dir := t.TempDir()
	e, _, err := Open(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	submit(t, e, "BTC-USD", book.SideSell, "100", "2")
	wantTop := e.TopOfBook("BTC-USD")
	crash(t, e)

	walPath := filepath.Join(dir, walFileName)
	f, err := os.OpenFile(walPath, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		t.Fatalf("open wal: %v", err)
	}
	if _, err := f.Write([]byte{0x21, 0x00, 0x00}); err != nil {
		t.Fatalf("append garbage: %v", err)
	}
	_ = f.Close()

	e2, st := reopen(t, dir)
	defer e2.Close()

	if !st.TruncatedTail {
		t.Fatalf("torn tail not detected: %+v", st)
	}
	if got := e2.TopOfBook("BTC-USD"); !topEqual(got, wantTop) {
		t.Fatalf("top = %+v, want %+v", got, wantTop)
	}

	// The repaired file accepts new appends and survives another cycle.
	submit(t, e2, "BTC-USD", book.SideBuy, "100", "1")
	crash(t, e2)
	e3, st3 := reopen(t, dir)
	defer e3.Close()
	if st3.TruncatedTail {
		t.Fatalf("tail still torn after repair: %+v", st3)
	}
	if trades := bookTrades(t, e3, "BTC-USD"); len(trades) != 1 || trades[0].ID != 1 {
		t.Fatalf("trades after repair = %+v", trades)
	}
}

func TestMissingTradeRecordsRederived(t *testing.T) {
	dir := t.TempDir()
	walPath := filepath.Join(dir, walFileName)

	// A crash after the order_accepted append but before the trade
	// append leaves the log ending exactly here.
	w, err := wal.OpenWrite(walPath, 0)
	if err != nil {
		t.Fatalf("OpenWrite: %v", err)
	}
	appendRec := func(r *journal.Record) {
		payload, err := journal.Encode(r)
		if err != nil {
			t.Fatalf("encode: %v", err)
		}
		if _, err := w.Append(payload); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	appendRec(&journal.Record{
		Kind: journal.KindOrderAccepted, Seq: 1, Symbol: "BTC-USD",
		Side: "SELL", Price: "100", Qty: "2", TsMs: 111,
	})
	appendRec(&journal.Record{Kind: journal.KindOrderRested, Seq: 1, RemainingQty: "2"})
	appendRec(&journal.Record{
		Kind: journal.KindOrderAccepted, Seq: 2, Symbol: "BTC-USD",
		Side: "BUY", Price: "100", Qty: "1", TsMs: 222,
	})
	if err := w.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	e, st := reopen(t, dir)
	defer e.Close()

	if st.WALTradesRederived != 1 {
		t.Fatalf("rederived = %d, want 1", st.WALTradesRederived)
	}
	trades := bookTrades(t, e, "BTC-USD")
	if len(trades) != 1 {
		t.Fatalf("trades = %+v", trades)
	}
	tr := trades[0]
	if tr.ID != 1 || tr.MakerSeq != 1 || tr.TakerSeq != 2 || tr.TsMs != 222 {
		t.Fatalf("rederived trade = %+v", tr)
	}
	if num.Canon(tr.Price) != "100" || num.Canon(tr.Qty) != "1" {
		t.Fatalf("rederived trade = %s@%s", num.Canon(tr.Qty), num.Canon(tr.Price))
	}

	// The id the lost trade was owed is now spent.
	submit(t, e, "BTC-USD", book.SideBuy, "100", "1")
	trades = bookTrades(t, e, "BTC-USD")
	if len(trades) != 2 || trades[1].ID != 2 {
		t.Fatalf("trades after next cross = %+v", trades)
	}
}

func TestCorruptSnapshotRefusesToStart(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, snapshotFileName), []byte("{half"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := Open(Config{DataDir: dir}); err == nil {
		t.Fatal("corrupt snapshot accepted")
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	e, _, err := Open(Config{DataDir: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	submit(t, e, "BTC-USD", book.SideSell, "100", "1")
	submit(t, e, "BTC-USD", book.SideSell, "100", "1")
	submit(t, e, "BTC-USD", book.SideBuy, "100", "1.5")
	submit(t, e, "BTC-USD", book.SideBuy, "99", "2")
	crash(t, e)

	e2, _ := reopen(t, dir)
	first := bookTrades(t, e2, "BTC-USD")
	firstTop := e2.TopOfBook("BTC-USD")
	crash(t, e2)

	e3, _ := reopen(t, dir)
	defer e3.Close()
	if got := bookTrades(t, e3, "BTC-USD"); !tradesEqual(got, first) {
		t.Fatalf("second replay diverged: %+v vs %+v", got, first)
	}
	if got := e3.TopOfBook("BTC-USD"); !topEqual(got, firstTop) {
		t.Fatalf("second replay top diverged: %+v vs %+v", got, firstTop)
	}
}
