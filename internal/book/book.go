// Package book implements the per-symbol price-time priority order book.
// The book is not goroutine safe; the engine serializes all access.
package book

import "github.com/shopspring/decimal"

type Book struct {
	bids *ladder
	asks *ladder
}

func New() *Book {
	return &Book{
		bids: newLadder(true),
		asks: newLadder(false),
	}
}

// Submit runs the incoming order through matching. Crossing quantity
// fills against the opposite side in price-time priority at the maker's
// resting price; any residual rests at the taker's limit price. Fills
// are returned in execution order.
func (b *Book) Submit(in Incoming) []Fill {
	// Guarded here as well as at the RPC layer so replay can never
	// corrupt state.
	if in.Qty.Sign() <= 0 || in.Price.IsNegative() {
		return nil
	}

	opposite := b.asks
	if in.Side == SideSell {
		opposite = b.bids
	}

	var fills []Fill
	remaining := in.Qty

	for remaining.Sign() > 0 {
		best := opposite.best()
		if best == nil {
			break
		}
		if in.Side == SideBuy && best.price.GreaterThan(in.Price) {
			break
		}
		if in.Side == SideSell && best.price.LessThan(in.Price) {
			break
		}

		for remaining.Sign() > 0 {
			maker := best.head()
			if maker == nil {
				break
			}

			traded := decimal.Min(remaining, maker.Remaining)
			remaining = remaining.Sub(traded)
			maker.Remaining = maker.Remaining.Sub(traded)
			best.reduce(traded)

			fills = append(fills, Fill{
				MakerSeq: maker.Seq,
				TakerSeq: in.Seq,
				Price:    best.price,
				Qty:      traded,
			})

			if maker.Remaining.IsZero() {
				best.popHead()
			}
		}

		if best.empty() {
			opposite.removeBest()
		}
	}

	if remaining.Sign() > 0 {
		b.Rest(&Order{
			Seq:           in.Seq,
			Side:          in.Side,
			Price:         in.Price,
			Remaining:     remaining,
			ClientOrderID: in.ClientOrderID,
		})
	}

	return fills
}

// Rest enqueues a maker at the tail of its level without matching.
// Used for the residual of Submit and for snapshot/WAL rebuild.
func (b *Book) Rest(o *Order) {
	side := b.bids
	if o.Side == SideSell {
		side = b.asks
	}
	side.getOrCreate(o.Price).enqueue(o)
}

// Top returns best bid/ask with their aggregated quantities; absent
// sides report zeros.
func (b *Book) Top() TopOfBook {
	var t TopOfBook
	if lv := b.bids.best(); lv != nil {
		t.BidPrice, t.BidQty = lv.price, lv.total
	}
	if lv := b.asks.best(); lv != nil {
		t.AskPrice, t.AskQty = lv.price, lv.total
	}
	return t
}

// Depth returns up to n aggregated levels per side, bids high to low and
// asks low to high. n <= 0 yields empty slices.
func (b *Book) Depth(n int) (bids, asks []LevelView) {
	if n <= 0 {
		return nil, nil
	}
	b.bids.walk(func(lv *level) bool {
		bids = append(bids, LevelView{Price: lv.price, Qty: lv.total})
		return len(bids) < n
	})
	b.asks.walk(func(lv *level) bool {
		asks = append(asks, LevelView{Price: lv.price, Qty: lv.total})
		return len(asks) < n
	})
	return bids, asks
}

// WalkOrders visits every resting order on one side in ladder order
// (best level first) and FIFO order within a level. Snapshot encoding
// depends on this order being deterministic.
func (b *Book) WalkOrders(side Side, fn func(*Order)) {
	l := b.bids
	if side == SideSell {
		l = b.asks
	}
	l.walk(func(lv *level) bool {
		for _, o := range lv.orders {
			fn(o)
		}
		return true
	})
}

// Empty reports whether the book holds no resting orders.
func (b *Book) Empty() bool {
	return b.bids.len() == 0 && b.asks.len() == 0
}
