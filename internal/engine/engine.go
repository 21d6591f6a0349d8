// Package engine is the sequencer core: the single serialization point
// for all state mutation. It owns the seq and trade id counters, the
// per-symbol books and trade rings, and the WAL handle. One writer
// mutates at a time under the exclusive lock; queries run under the
// shared lock and observe a consistent prefix of accepted writes.
package engine

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"matchcore.io/internal/book"
	"matchcore.io/internal/journal"
	"matchcore.io/internal/num"
	"matchcore.io/internal/snapshot"
	"matchcore.io/pkg/logger"
	"matchcore.io/pkg/metrics"
	"matchcore.io/pkg/safe"
	"matchcore.io/pkg/wal"
	"matchcore.io/pkg/xerr"
)

const (
	// MaxTradesPerSymbol bounds the in-memory trade tape per symbol.
	MaxTradesPerSymbol = 10_000
	// MaxTradesLimit caps a single GetRecentTrades response.
	MaxTradesLimit = 1_000
	// DefaultTradesLimit applies when the request carries no limit.
	DefaultTradesLimit = 50
	// MaxDepthLevels keeps depth responses bounded.
	MaxDepthLevels = 100

	walFileName      = "wal.log"
	snapshotFileName = "snapshot.json"
)

// ErrEngineFailed is returned once a fatal I/O error has halted the
// engine; no further writes are accepted.
var ErrEngineFailed = xerr.New(xerr.StorageError, "engine halted after fatal I/O error")

// FlushPolicy controls when WAL appends reach stable storage. The
// durability contract is identical either way: no submission is
// acknowledged before its records are durable.
type FlushPolicy struct {
	Batched  bool
	Interval time.Duration
}

// ParseFlushPolicy accepts "per_record" or "batched_ms:<n>".
func ParseFlushPolicy(s string) (FlushPolicy, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "per_record" {
		return FlushPolicy{}, nil
	}
	if rest, ok := strings.CutPrefix(s, "batched_ms:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return FlushPolicy{}, xerr.Newf(xerr.RequestParamsError, "bad wal_flush_policy %q", s)
		}
		return FlushPolicy{Batched: true, Interval: time.Duration(n) * time.Millisecond}, nil
	}
	return FlushPolicy{}, xerr.Newf(xerr.RequestParamsError, "bad wal_flush_policy %q", s)
}

type Config struct {
	DataDir          string
	FlushPolicy      FlushPolicy
	SnapshotInterval time.Duration // 0 disables periodic snapshots
	TradeRingSize    int           // 0 uses MaxTradesPerSymbol
}

// Trade is an immutable execution record.
type Trade struct {
	ID        uint64
	Symbol    string
	Price     decimal.Decimal
	Qty       decimal.Decimal
	MakerSeq  uint64
	TakerSeq  uint64
	TakerSide book.Side
	TsMs      int64
}

// SubmitResult reports the assigned sequence number and the fills the
// submission produced, in execution order.
type SubmitResult struct {
	Seq   uint64
	Fills []book.Fill
}

type Engine struct {
	cfg Config

	mu     sync.RWMutex
	books  map[string]*book.Book
	trades map[string]*tradeRing

	nextSeq     uint64
	nextTradeID uint64
	lastTs      int64

	w        *wal.Writer
	walPath  string
	snapPath string

	now    func() time.Time
	failed error
	closed bool

	stopJobs chan struct{}
	jobsWG   sync.WaitGroup
}

// startBackground launches the batched WAL flusher and the periodic
// snapshot job as configured.
func (e *Engine) startBackground() {
	e.stopJobs = make(chan struct{})

	if e.cfg.FlushPolicy.Batched {
		e.jobsWG.Add(1)
		safe.Go(func() {
			defer e.jobsWG.Done()
			t := time.NewTicker(e.cfg.FlushPolicy.Interval)
			defer t.Stop()
			for {
				select {
				case <-e.stopJobs:
					return
				case <-t.C:
					start := time.Now()
					if err := e.w.Flush(); err != nil {
						e.fail(err)
						return
					}
					metrics.WALFsyncSeconds.Observe(time.Since(start).Seconds())
				}
			}
		})
	}

	if e.cfg.SnapshotInterval > 0 {
		e.jobsWG.Add(1)
		safe.Go(func() {
			defer e.jobsWG.Done()
			t := time.NewTicker(e.cfg.SnapshotInterval)
			defer t.Stop()
			for {
				select {
				case <-e.stopJobs:
					return
				case <-t.C:
					if err := e.WriteSnapshot(); err != nil {
						logger.Error(context.Background(), "periodic snapshot failed", zap.Error(err))
					}
				}
			}
		})
	}
}

// SubmitOrder validates, sequences, persists and matches one order.
// On success the returned seq and every produced trade are durable.
func (e *Engine) SubmitOrder(ctx context.Context, symbol string, side book.Side, price, qty decimal.Decimal, clientOrderID string) (SubmitResult, error) {
	if err := validateSubmit(symbol, side, price, qty); err != nil {
		metrics.OrdersRejectedTotal.WithLabelValues("validation").Inc()
		return SubmitResult{}, err
	}

	e.mu.Lock()
	if e.failed != nil || e.closed {
		e.mu.Unlock()
		return SubmitResult{}, ErrEngineFailed
	}

	seq := e.nextSeq
	ts := e.stampTsLocked()

	_, err := e.appendLocked(&journal.Record{
		Kind:          journal.KindOrderAccepted,
		Seq:           seq,
		Symbol:        symbol,
		Side:          side.String(),
		Price:         num.Canon(price),
		Qty:           num.Canon(qty),
		ClientOrderID: clientOrderID,
		TsMs:          ts,
	})
	if err != nil {
		e.failLocked(err)
		e.mu.Unlock()
		return SubmitResult{}, ErrEngineFailed
	}
	e.nextSeq++

	b := e.books[symbol]
	if b == nil {
		b = book.New()
		e.books[symbol] = b
	}

	fills := b.Submit(book.Incoming{
		Seq:           seq,
		Side:          side,
		Price:         price,
		Qty:           qty,
		ClientOrderID: clientOrderID,
	})

	filled := decimal.Zero
	for _, f := range fills {
		filled = filled.Add(f.Qty)
		id := e.nextTradeID

		if _, err := e.appendLocked(&journal.Record{
			Kind:      journal.KindTrade,
			TradeID:   id,
			Symbol:    symbol,
			MakerSeq:  f.MakerSeq,
			TakerSeq:  f.TakerSeq,
			Price:     num.Canon(f.Price),
			Qty:       num.Canon(f.Qty),
			TakerSide: side.String(),
			TsMs:      ts,
		}); err != nil {
			e.failLocked(err)
			e.mu.Unlock()
			return SubmitResult{}, ErrEngineFailed
		}
		e.nextTradeID++

		e.ringFor(symbol).push(Trade{
			ID:        id,
			Symbol:    symbol,
			Price:     f.Price,
			Qty:       f.Qty,
			MakerSeq:  f.MakerSeq,
			TakerSeq:  f.TakerSeq,
			TakerSide: side,
			TsMs:      ts,
		})
		metrics.TradesTotal.Inc()
	}

	var endOff int64
	if residual := qty.Sub(filled); residual.Sign() > 0 {
		endOff, err = e.appendLocked(&journal.Record{
			Kind:         journal.KindOrderRested,
			Seq:          seq,
			RemainingQty: num.Canon(residual),
		})
		if err != nil {
			e.failLocked(err)
			e.mu.Unlock()
			return SubmitResult{}, ErrEngineFailed
		}
	} else {
		endOff = e.w.Offset()
	}

	if !e.cfg.FlushPolicy.Batched {
		start := time.Now()
		if err := e.w.Flush(); err != nil {
			e.failLocked(err)
			e.mu.Unlock()
			return SubmitResult{}, ErrEngineFailed
		}
		metrics.WALFsyncSeconds.Observe(time.Since(start).Seconds())
		e.mu.Unlock()
	} else {
		// Group commit: release the write lock, then block until the
		// background flusher has made this submission's records durable.
		e.mu.Unlock()
		if err := e.w.WaitDurable(endOff); err != nil {
			e.fail(err)
			return SubmitResult{}, ErrEngineFailed
		}
	}

	metrics.OrdersAcceptedTotal.Inc()
	logger.Debug(ctx, "order accepted",
		zap.Uint64("seq", seq),
		zap.String("symbol", symbol),
		zap.String("side", side.String()),
		zap.Int("fills", len(fills)),
	)

	return SubmitResult{Seq: seq, Fills: fills}, nil
}

func validateSubmit(symbol string, side book.Side, price, qty decimal.Decimal) error {
	if symbol == "" {
		return xerr.New(xerr.RequestParamsError, "symbol must be non-empty")
	}
	if side != book.SideBuy && side != book.SideSell {
		return xerr.New(xerr.RequestParamsError, "side must be BUY or SELL")
	}
	if price.IsNegative() {
		return xerr.New(xerr.RequestParamsError, "price must be >= 0")
	}
	if qty.Sign() <= 0 {
		return xerr.New(xerr.RequestParamsError, "qty must be > 0")
	}
	return nil
}

// TopOfBook never fails for a valid symbol string; an unknown symbol
// reports an empty book.
func (e *Engine) TopOfBook(symbol string) book.TopOfBook {
	e.mu.RLock()
	defer e.mu.RUnlock()
	b := e.books[symbol]
	if b == nil {
		return book.TopOfBook{}
	}
	return b.Top()
}

// Depth returns up to levels aggregated entries per side; levels <= 0
// yields empty slices and the count is capped at MaxDepthLevels.
func (e *Engine) Depth(symbol string, levels int) (bids, asks []book.LevelView) {
	if levels > MaxDepthLevels {
		levels = MaxDepthLevels
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	b := e.books[symbol]
	if b == nil {
		return nil, nil
	}
	return b.Depth(levels)
}

// RecentTrades returns up to limit trades with id > afterID in
// ascending id order, plus the highest id included (afterID when the
// response is empty). Trades evicted from the ring are simply absent.
func (e *Engine) RecentTrades(symbol string, afterID uint64, limit int) ([]Trade, uint64) {
	if limit <= 0 {
		limit = DefaultTradesLimit
	}
	if limit > MaxTradesLimit {
		limit = MaxTradesLimit
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	r := e.trades[symbol]
	if r == nil {
		return nil, afterID
	}

	var out []Trade
	r.ascend(func(t Trade) bool {
		if t.ID > afterID {
			out = append(out, t)
		}
		return len(out) < limit
	})

	last := afterID
	if len(out) > 0 {
		last = out[len(out)-1].ID
	}
	return out, last
}

// Health reports liveness; "failed" means a fatal I/O error halted the
// engine and a restart (with recovery) is required.
func (e *Engine) Health() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.failed != nil {
		return "failed"
	}
	return "ok"
}

// Err reports the sticky fatal error, if any.
func (e *Engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.failed
}

// WriteSnapshot persists the full engine state atomically. Writes are
// excluded for the duration; queries as well, since snapshot encoding
// walks the books.
func (e *Engine) WriteSnapshot() error {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failed != nil {
		return e.failed
	}

	// Everything accepted so far must be on disk before the snapshot
	// claims to cover it.
	if err := e.w.Flush(); err != nil {
		e.failLocked(err)
		return err
	}

	snap := e.buildSnapshotLocked()
	if err := snapshot.Write(e.snapPath, snap); err != nil {
		return err
	}

	metrics.SnapshotSeconds.Observe(time.Since(start).Seconds())
	logger.Info(context.Background(), "snapshot written",
		zap.Uint64("last_seq", snap.LastSeq),
		zap.Uint64("last_trade_id", snap.LastTradeID),
		zap.Int("books", len(snap.Books)),
	)
	return nil
}

func (e *Engine) buildSnapshotLocked() *snapshot.Snapshot {
	snap := &snapshot.Snapshot{
		LastSeq:     e.nextSeq - 1,
		LastTradeID: e.nextTradeID - 1,
		LastTsMs:    e.lastTs,
		WALOffset:   e.w.Offset(),
	}

	symbols := make([]string, 0, len(e.books))
	for sym := range e.books {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	for _, sym := range symbols {
		b := e.books[sym]
		if b.Empty() {
			continue
		}
		bs := snapshot.BookState{Symbol: sym}
		b.WalkOrders(book.SideBuy, func(o *book.Order) {
			bs.Bids = append(bs.Bids, restingToSnapshot(o))
		})
		b.WalkOrders(book.SideSell, func(o *book.Order) {
			bs.Asks = append(bs.Asks, restingToSnapshot(o))
		})
		snap.Books = append(snap.Books, bs)
	}

	tradeSymbols := make([]string, 0, len(e.trades))
	for sym := range e.trades {
		tradeSymbols = append(tradeSymbols, sym)
	}
	sort.Strings(tradeSymbols)

	for _, sym := range tradeSymbols {
		st := snapshot.SymbolTrades{Symbol: sym}
		e.trades[sym].ascend(func(t Trade) bool {
			st.Trades = append(st.Trades, snapshot.Trade{
				TradeID:   t.ID,
				Symbol:    t.Symbol,
				Price:     num.Canon(t.Price),
				Qty:       num.Canon(t.Qty),
				MakerSeq:  t.MakerSeq,
				TakerSeq:  t.TakerSeq,
				TakerSide: t.TakerSide.String(),
				TsMs:      t.TsMs,
			})
			return true
		})
		if len(st.Trades) > 0 {
			snap.Trades = append(snap.Trades, st)
		}
	}

	return snap
}

func restingToSnapshot(o *book.Order) snapshot.RestingOrder {
	return snapshot.RestingOrder{
		Seq:           o.Seq,
		Side:          o.Side.String(),
		Price:         num.Canon(o.Price),
		RemainingQty:  num.Canon(o.Remaining),
		ClientOrderID: o.ClientOrderID,
	}
}

// Close performs the clean shutdown sequence: stop background jobs,
// write a final snapshot, close the WAL and truncate it (the snapshot
// now covers every record).
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	close(e.stopJobs)
	e.jobsWG.Wait()

	if err := e.WriteSnapshot(); err != nil {
		_ = e.w.Close()
		return err
	}
	if err := e.w.Close(); err != nil {
		return err
	}
	if err := wal.TruncateTo(e.walPath, 0); err != nil {
		return err
	}
	logger.Info(context.Background(), "engine closed, wal truncated")
	return nil
}

// appendLocked encodes and appends one record; caller holds the write
// lock.
func (e *Engine) appendLocked(rec *journal.Record) (int64, error) {
	payload, err := journal.Encode(rec)
	if err != nil {
		return 0, err
	}
	return e.w.Append(payload)
}

// stampTsLocked returns current wall time in ms, never going backwards
// within a process lifetime.
func (e *Engine) stampTsLocked() int64 {
	now := e.now().UnixMilli()
	if now < e.lastTs {
		now = e.lastTs
	}
	e.lastTs = now
	return now
}

func (e *Engine) ringFor(symbol string) *tradeRing {
	r := e.trades[symbol]
	if r == nil {
		size := e.cfg.TradeRingSize
		if size <= 0 {
			size = MaxTradesPerSymbol
		}
		r = newTradeRing(size)
		e.trades[symbol] = r
	}
	return r
}

func (e *Engine) failLocked(err error) {
	if e.failed == nil {
		e.failed = err
		logger.Error(context.Background(), "engine halted on fatal I/O error", zap.Error(err))
	}
}

func (e *Engine) fail(err error) {
	e.mu.Lock()
	e.failLocked(err)
	e.mu.Unlock()
}
