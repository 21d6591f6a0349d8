package engine

// tradeRing is a fixed-capacity circular buffer holding the most
// recent trades for one symbol in ascending id order. The oldest
// entries fall off silently once capacity is reached.
type tradeRing struct {
	buf   []Trade
	start int
	count int
}

func newTradeRing(capacity int) *tradeRing {
	return &tradeRing{buf: make([]Trade, capacity)}
}

func (r *tradeRing) push(t Trade) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = t
		r.count++
		return
	}
	r.buf[r.start] = t
	r.start = (r.start + 1) % len(r.buf)
}

// ascend visits trades oldest first; fn returning false stops the
// walk.
func (r *tradeRing) ascend(fn func(Trade) bool) {
	for i := 0; i < r.count; i++ {
		if !fn(r.buf[(r.start+i)%len(r.buf)]) {
			return
		}
	}
}

func (r *tradeRing) len() int { return r.count }
