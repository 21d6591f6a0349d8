package book

import "github.com/shopspring/decimal"

// level is the FIFO queue of resting orders at one price. total caches
// the aggregate remaining quantity so top-of-book and depth reads are
// O(1) per level.
type level struct {
	price  decimal.Decimal
	orders []*Order
	total  decimal.Decimal
}

func newLevel(price decimal.Decimal) *level {
	return &level{price: price}
}

// enqueue appends at the tail; insertion order is time priority.
func (l *level) enqueue(o *Order) {
	l.orders = append(l.orders, o)
	l.total = l.total.Add(o.Remaining)
}

func (l *level) head() *Order {
	if len(l.orders) == 0 {
		return nil
	}
	return l.orders[0]
}

func (l *level) popHead() *Order {
	if len(l.orders) == 0 {
		return nil
	}
	o := l.orders[0]
	l.orders[0] = nil
	l.orders = l.orders[1:]
	return o
}

// reduce lowers the cached aggregate after a fill against any resident
// order.
func (l *level) reduce(qty decimal.Decimal) {
	l.total = l.total.Sub(qty)
}

func (l *level) empty() bool {
	return len(l.orders) == 0
}
