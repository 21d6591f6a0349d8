package book

import (
	"sort"

	"github.com/shopspring/decimal"
	"matchcore.io/internal/num"
)

// ladder is one side of the book: price levels kept sorted best-first
// (bids descending, asks ascending) with a canonical-price index for
// O(log L) insertion and O(1) lookup of an existing level.
type ladder struct {
	levels []*level
	index  map[string]*level
	desc   bool
}

func newLadder(desc bool) *ladder {
	return &ladder{
		index: make(map[string]*level, 64),
		desc:  desc,
	}
}

func (l *ladder) len() int { return len(l.levels) }

func (l *ladder) best() *level {
	if len(l.levels) == 0 {
		return nil
	}
	return l.levels[0]
}

// before reports whether price a sorts ahead of b on this side.
func (l *ladder) before(a, b decimal.Decimal) bool {
	if l.desc {
		return a.GreaterThan(b)
	}
	return a.LessThan(b)
}

func (l *ladder) get(price decimal.Decimal) *level {
	return l.index[num.Canon(price)]
}

func (l *ladder) getOrCreate(price decimal.Decimal) *level {
	key := num.Canon(price)
	if lv := l.index[key]; lv != nil {
		return lv
	}
	lv := newLevel(price)
	i := sort.Search(len(l.levels), func(i int) bool {
		return l.before(price, l.levels[i].price)
	})
	l.levels = append(l.levels, nil)
	copy(l.levels[i+1:], l.levels[i:])
	l.levels[i] = lv
	l.index[key] = lv
	return lv
}

func (l *ladder) removeBest() {
	if len(l.levels) == 0 {
		return
	}
	delete(l.index, num.Canon(l.levels[0].price))
	l.levels[0] = nil
	l.levels = l.levels[1:]
}

// walk visits levels best-first until fn returns false.
func (l *ladder) walk(fn func(*level) bool) {
	for _, lv := range l.levels {
		if !fn(lv) {
			return
		}
	}
}
