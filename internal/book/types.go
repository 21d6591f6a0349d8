package book

import (
	"github.com/shopspring/decimal"
	"matchcore.io/pkg/xerr"
)

type Side uint8

const (
	SideBuy Side = iota + 1
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return ""
	}
}

func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

func ParseSide(s string) (Side, error) {
	switch s {
	case "BUY":
		return SideBuy, nil
	case "SELL":
		return SideSell, nil
	default:
		return 0, xerr.Newf(xerr.RequestParamsError, "side %q must be BUY or SELL", s)
	}
}

// Incoming is an accepted taker order entering the matching loop.
// Qty is the full requested quantity.
type Incoming struct {
	Seq           uint64
	Side          Side
	Price         decimal.Decimal
	Qty           decimal.Decimal
	ClientOrderID string
}

// Order is a resting maker. It is a separate type from Incoming so
// taker-side quantity mutation can never leak into rested state.
type Order struct {
	Seq           uint64
	Side          Side
	Price         decimal.Decimal
	Remaining     decimal.Decimal
	ClientOrderID string
}

// Fill is one maker/taker execution. Price is always the maker's
// resting price.
type Fill struct {
	MakerSeq uint64
	TakerSeq uint64
	Price    decimal.Decimal
	Qty      decimal.Decimal
}

// LevelView is one aggregated depth entry.
type LevelView struct {
	Price decimal.Decimal
	Qty   decimal.Decimal
}

// TopOfBook carries best bid/ask with aggregated level quantities.
// Absent sides hold decimal zero.
type TopOfBook struct {
	BidPrice decimal.Decimal
	BidQty   decimal.Decimal
	AskPrice decimal.Decimal
	AskQty   decimal.Decimal
}
