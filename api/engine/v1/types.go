// Package enginev1 holds the wire types for the engine service,
// mirroring engine.proto. The messages are maintained by hand in the
// struct-tag form so the repo builds without a protoc toolchain; the
// protobuf runtime derives descriptors from the tags.
package enginev1

import (
	"fmt"

	"google.golang.org/protobuf/protoadapt"
)

// The protobuf runtime treats these as legacy messages and derives
// their descriptors from the struct tags above each field. Keep the
// tags in step with engine.proto.
var (
	_ protoadapt.MessageV1 = (*SubmitOrderReq)(nil)
	_ protoadapt.MessageV1 = (*SubmitOrderResp)(nil)
	_ protoadapt.MessageV1 = (*Fill)(nil)
	_ protoadapt.MessageV1 = (*GetTopOfBookReq)(nil)
	_ protoadapt.MessageV1 = (*GetTopOfBookResp)(nil)
	_ protoadapt.MessageV1 = (*GetBookDepthReq)(nil)
	_ protoadapt.MessageV1 = (*GetBookDepthResp)(nil)
	_ protoadapt.MessageV1 = (*PriceLevel)(nil)
	_ protoadapt.MessageV1 = (*GetRecentTradesReq)(nil)
	_ protoadapt.MessageV1 = (*GetRecentTradesResp)(nil)
	_ protoadapt.MessageV1 = (*Trade)(nil)
	_ protoadapt.MessageV1 = (*HealthReq)(nil)
	_ protoadapt.MessageV1 = (*HealthResp)(nil)
)

type SubmitOrderReq struct {
	Symbol        string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Side          string `protobuf:"bytes,2,opt,name=side,proto3" json:"side,omitempty"`
	Price         string `protobuf:"bytes,3,opt,name=price,proto3" json:"price,omitempty"`
	Qty           string `protobuf:"bytes,4,opt,name=qty,proto3" json:"qty,omitempty"`
	ClientOrderId string `protobuf:"bytes,5,opt,name=client_order_id,json=clientOrderId,proto3" json:"client_order_id,omitempty"`
}

func (m *SubmitOrderReq) Reset()         { *m = SubmitOrderReq{} }
func (m *SubmitOrderReq) String() string { return fmt.Sprintf("%+v", *m) }
func (*SubmitOrderReq) ProtoMessage()    {}

type Fill struct {
	MakerSeq uint64 `protobuf:"varint,1,opt,name=maker_seq,json=makerSeq,proto3" json:"maker_seq,omitempty"`
	TakerSeq uint64 `protobuf:"varint,2,opt,name=taker_seq,json=takerSeq,proto3" json:"taker_seq,omitempty"`
	Price    string `protobuf:"bytes,3,opt,name=price,proto3" json:"price,omitempty"`
	Qty      string `protobuf:"bytes,4,opt,name=qty,proto3" json:"qty,omitempty"`
}

func (m *Fill) Reset()         { *m = Fill{} }
func (m *Fill) String() string { return fmt.Sprintf("%+v", *m) }
func (*Fill) ProtoMessage()    {}

type SubmitOrderResp struct {
	Seq   uint64  `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Fills []*Fill `protobuf:"bytes,2,rep,name=fills,proto3" json:"fills,omitempty"`
}

func (m *SubmitOrderResp) Reset()         { *m = SubmitOrderResp{} }
func (m *SubmitOrderResp) String() string { return fmt.Sprintf("%+v", *m) }
func (*SubmitOrderResp) ProtoMessage()    {}

type GetTopOfBookReq struct {
	Symbol string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
}

func (m *GetTopOfBookReq) Reset()         { *m = GetTopOfBookReq{} }
func (m *GetTopOfBookReq) String() string { return fmt.Sprintf("%+v", *m) }
func (*GetTopOfBookReq) ProtoMessage()    {}

type GetTopOfBookResp struct {
	BidPrice string `protobuf:"bytes,1,opt,name=bid_price,json=bidPrice,proto3" json:"bid_price,omitempty"`
	BidQty   string `protobuf:"bytes,2,opt,name=bid_qty,json=bidQty,proto3" json:"bid_qty,omitempty"`
	AskPrice string `protobuf:"bytes,3,opt,name=ask_price,json=askPrice,proto3" json:"ask_price,omitempty"`
	AskQty   string `protobuf:"bytes,4,opt,name=ask_qty,json=askQty,proto3" json:"ask_qty,omitempty"`
}

func (m *GetTopOfBookResp) Reset()         { *m = GetTopOfBookResp{} }
func (m *GetTopOfBookResp) String() string { return fmt.Sprintf("%+v", *m) }
func (*GetTopOfBookResp) ProtoMessage()    {}

type GetBookDepthReq struct {
	Symbol string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Levels int32  `protobuf:"varint,2,opt,name=levels,proto3" json:"levels,omitempty"`
}

func (m *GetBookDepthReq) Reset()         { *m = GetBookDepthReq{} }
func (m *GetBookDepthReq) String() string { return fmt.Sprintf("%+v", *m) }
func (*GetBookDepthReq) ProtoMessage()    {}

type PriceLevel struct {
	Price string `protobuf:"bytes,1,opt,name=price,proto3" json:"price,omitempty"`
	Qty   string `protobuf:"bytes,2,opt,name=qty,proto3" json:"qty,omitempty"`
}

func (m *PriceLevel) Reset()         { *m = PriceLevel{} }
func (m *PriceLevel) String() string { return fmt.Sprintf("%+v", *m) }
func (*PriceLevel) ProtoMessage()    {}

type GetBookDepthResp struct {
	Bids []*PriceLevel `protobuf:"bytes,1,rep,name=bids,proto3" json:"bids,omitempty"`
	Asks []*PriceLevel `protobuf:"bytes,2,rep,name=asks,proto3" json:"asks,omitempty"`
}

func (m *GetBookDepthResp) Reset()         { *m = GetBookDepthResp{} }
func (m *GetBookDepthResp) String() string { return fmt.Sprintf("%+v", *m) }
func (*GetBookDepthResp) ProtoMessage()    {}

type GetRecentTradesReq struct {
	Symbol       string `protobuf:"bytes,1,opt,name=symbol,proto3" json:"symbol,omitempty"`
	AfterTradeId uint64 `protobuf:"varint,2,opt,name=after_trade_id,json=afterTradeId,proto3" json:"after_trade_id,omitempty"`
	Limit        int32  `protobuf:"varint,3,opt,name=limit,proto3" json:"limit,omitempty"`
}

func (m *GetRecentTradesReq) Reset()         { *m = GetRecentTradesReq{} }
func (m *GetRecentTradesReq) String() string { return fmt.Sprintf("%+v", *m) }
func (*GetRecentTradesReq) ProtoMessage()    {}

type Trade struct {
	TradeId   uint64 `protobuf:"varint,1,opt,name=trade_id,json=tradeId,proto3" json:"trade_id,omitempty"`
	Symbol    string `protobuf:"bytes,2,opt,name=symbol,proto3" json:"symbol,omitempty"`
	Price     string `protobuf:"bytes,3,opt,name=price,proto3" json:"price,omitempty"`
	Qty       string `protobuf:"bytes,4,opt,name=qty,proto3" json:"qty,omitempty"`
	MakerSeq  uint64 `protobuf:"varint,5,opt,name=maker_seq,json=makerSeq,proto3" json:"maker_seq,omitempty"`
	TakerSeq  uint64 `protobuf:"varint,6,opt,name=taker_seq,json=takerSeq,proto3" json:"taker_seq,omitempty"`
	TakerSide string `protobuf:"bytes,7,opt,name=taker_side,json=takerSide,proto3" json:"taker_side,omitempty"`
	TsMs      int64  `protobuf:"varint,8,opt,name=ts_ms,json=tsMs,proto3" json:"ts_ms,omitempty"`
}

func (m *Trade) Reset()         { *m = Trade{} }
func (m *Trade) String() string { return fmt.Sprintf("%+v", *m) }
func (*Trade) ProtoMessage()    {}

type GetRecentTradesResp struct {
	Trades      []*Trade `protobuf:"bytes,1,rep,name=trades,proto3" json:"trades,omitempty"`
	LastTradeId uint64   `protobuf:"varint,2,opt,name=last_trade_id,json=lastTradeId,proto3" json:"last_trade_id,omitempty"`
}

func (m *GetRecentTradesResp) Reset()         { *m = GetRecentTradesResp{} }
func (m *GetRecentTradesResp) String() string { return fmt.Sprintf("%+v", *m) }
func (*GetRecentTradesResp) ProtoMessage()    {}

type HealthReq struct{}

func (m *HealthReq) Reset()         { *m = HealthReq{} }
func (m *HealthReq) String() string { return fmt.Sprintf("%+v", *m) }
func (*HealthReq) ProtoMessage()    {}

type HealthResp struct {
	Status string `protobuf:"bytes,1,opt,name=status,proto3" json:"status,omitempty"`
}

func (m *HealthResp) Reset()         { *m = HealthResp{} }
func (m *HealthResp) String() string { return fmt.Sprintf("%+v", *m) }
func (*HealthResp) ProtoMessage()    {}
