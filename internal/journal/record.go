// Package journal defines the engine's durable record model: the typed
// payloads framed into the WAL by pkg/wal and the snapshot document.
package journal

import "matchcore.io/pkg/xerr"

type Kind string

const (
	KindOrderAccepted Kind = "order_accepted"
	KindTrade         Kind = "trade"
	KindOrderRested   Kind = "order_rested"
)

// Record is the single wire shape for all kinds; unused fields are
// omitted. Decimals travel as canonical strings, same as the RPC
// surface, so a WAL is inspectable with standard line tools once
// unframed.
type Record struct {
	Kind Kind `json:"kind"`

	// order_accepted / order_rested
	Seq           uint64 `json:"seq,omitempty"`
	Symbol        string `json:"symbol,omitempty"`
	Side          string `json:"side,omitempty"`
	Price         string `json:"price,omitempty"`
	Qty           string `json:"qty,omitempty"`
	ClientOrderID string `json:"client_order_id,omitempty"`
	RemainingQty  string `json:"remaining_qty,omitempty"`

	// trade
	TradeID   uint64 `json:"trade_id,omitempty"`
	MakerSeq  uint64 `json:"maker_seq,omitempty"`
	TakerSeq  uint64 `json:"taker_seq,omitempty"`
	TakerSide string `json:"taker_side,omitempty"`

	TsMs int64 `json:"ts_ms,omitempty"`
}

func (r *Record) Validate() error {
	switch r.Kind {
	case KindOrderAccepted:
		if r.Seq == 0 || r.Symbol == "" || r.Side == "" || r.Price == "" || r.Qty == "" {
			return xerr.Newf(xerr.StorageError, "order_accepted record missing fields: %+v", r)
		}
	case KindTrade:
		if r.TradeID == 0 || r.Symbol == "" || r.MakerSeq == 0 || r.TakerSeq == 0 || r.Price == "" || r.Qty == "" {
			return xerr.Newf(xerr.StorageError, "trade record missing fields: %+v", r)
		}
	case KindOrderRested:
		if r.Seq == 0 || r.RemainingQty == "" {
			return xerr.Newf(xerr.StorageError, "order_rested record missing fields: %+v", r)
		}
	default:
		return xerr.Newf(xerr.StorageError, "unknown record kind %q", r.Kind)
	}
	return nil
}
