// Package server is the gRPC access layer. It owns request validation
// and the translation between wire strings and engine types; all
// business rules live in internal/engine.
package server

import (
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	pb "matchcore.io/api/engine/v1"
	"matchcore.io/internal/book"
	"matchcore.io/internal/engine"
	"matchcore.io/internal/num"
	"matchcore.io/pkg/xerr"
)

type GrpcServer struct {
	pb.UnimplementedEngineServer

	eng *engine.Engine
}

func NewGrpcServer(eng *engine.Engine) *GrpcServer {
	return &GrpcServer{eng: eng}
}

func (s *GrpcServer) SubmitOrder(ctx context.Context, req *pb.SubmitOrderReq) (*pb.SubmitOrderResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}
	side, err := book.ParseSide(req.Side)
	if err != nil {
		return nil, s.convertError(err)
	}
	price, err := num.ParsePrice(req.Price)
	if err != nil {
		return nil, s.convertError(err)
	}
	qty, err := num.ParseQty(req.Qty)
	if err != nil {
		return nil, s.convertError(err)
	}

	res, err := s.eng.SubmitOrder(ctx, symbol, side, price, qty, strings.TrimSpace(req.ClientOrderId))
	if err != nil {
		return nil, s.convertError(err)
	}

	resp := &pb.SubmitOrderResp{Seq: res.Seq}
	for _, f := range res.Fills {
		resp.Fills = append(resp.Fills, &pb.Fill{
			MakerSeq: f.MakerSeq,
			TakerSeq: f.TakerSeq,
			Price:    num.Canon(f.Price),
			Qty:      num.Canon(f.Qty),
		})
	}
	return resp, nil
}

func (s *GrpcServer) GetTopOfBook(ctx context.Context, req *pb.GetTopOfBookReq) (*pb.GetTopOfBookResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}

	// Absent sides report canonical zero, not absence; textual consumers
	// depend on the fields always being present.
	top := s.eng.TopOfBook(symbol)
	resp := &pb.GetTopOfBookResp{
		BidPrice: num.Zero, BidQty: num.Zero,
		AskPrice: num.Zero, AskQty: num.Zero,
	}
	if top.BidQty.Sign() > 0 {
		resp.BidPrice = num.Canon(top.BidPrice)
		resp.BidQty = num.Canon(top.BidQty)
	}
	if top.AskQty.Sign() > 0 {
		resp.AskPrice = num.Canon(top.AskPrice)
		resp.AskQty = num.Canon(top.AskQty)
	}
	return resp, nil
}

func (s *GrpcServer) GetBookDepth(ctx context.Context, req *pb.GetBookDepthReq) (*pb.GetBookDepthResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}

	bids, asks := s.eng.Depth(symbol, int(req.Levels))
	return &pb.GetBookDepthResp{
		Bids: levelsToProto(bids),
		Asks: levelsToProto(asks),
	}, nil
}

func (s *GrpcServer) GetRecentTrades(ctx context.Context, req *pb.GetRecentTradesReq) (*pb.GetRecentTradesResp, error) {
	symbol := strings.TrimSpace(req.Symbol)
	if symbol == "" {
		return nil, status.Error(codes.InvalidArgument, "symbol is required")
	}

	trades, last := s.eng.RecentTrades(symbol, req.AfterTradeId, int(req.Limit))
	resp := &pb.GetRecentTradesResp{LastTradeId: last}
	for _, t := range trades {
		resp.Trades = append(resp.Trades, &pb.Trade{
			TradeId:   t.ID,
			Symbol:    t.Symbol,
			Price:     num.Canon(t.Price),
			Qty:       num.Canon(t.Qty),
			MakerSeq:  t.MakerSeq,
			TakerSeq:  t.TakerSeq,
			TakerSide: t.TakerSide.String(),
			TsMs:      t.TsMs,
		})
	}
	return resp, nil
}

func (s *GrpcServer) Health(ctx context.Context, req *pb.HealthReq) (*pb.HealthResp, error) {
	return &pb.HealthResp{Status: s.eng.Health()}, nil
}

func levelsToProto(levels []book.LevelView) []*pb.PriceLevel {
	out := make([]*pb.PriceLevel, 0, len(levels))
	for _, lv := range levels {
		out = append(out, &pb.PriceLevel{
			Price: num.Canon(lv.Price),
			Qty:   num.Canon(lv.Qty),
		})
	}
	return out
}

// convertError maps engine error codes onto gRPC status codes.
func (s *GrpcServer) convertError(err error) error {
	if err == nil {
		return nil
	}

	codeErr, ok := err.(*xerr.CodeError)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}

	var grpcCode codes.Code
	switch codeErr.Code {
	case xerr.RequestParamsError:
		grpcCode = codes.InvalidArgument
	case xerr.RecordNotFound:
		grpcCode = codes.NotFound
	case xerr.StorageError:
		// A halted engine needs an operator restart; clients should
		// fail over rather than retry blindly.
		grpcCode = codes.Unavailable
	default:
		grpcCode = codes.Internal
	}

	return status.Error(grpcCode, codeErr.Msg)
}
