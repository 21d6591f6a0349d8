package interceptor

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"matchcore.io/pkg/common"
)

type ctxKey string

// RequestIDServerUnary takes the request id from incoming metadata or
// generates one, then stores it in the context for handlers and logs.
func RequestIDServerUnary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		rid := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(common.MetaRequestID); len(vals) > 0 {
				rid = vals[0]
			}
		}
		if rid == "" {
			rid = common.New()
		}
		// Both keys: the private key for RequestIDFromCtx and the string
		// key that pkg/logger reads.
		ctx = context.WithValue(ctx, ctxKey(common.CtxKeyRequestID), rid)
		ctx = context.WithValue(ctx, common.CtxKeyRequestID, rid)
		return handler(ctx, req)
	}
}

func RequestIDFromCtx(ctx context.Context) string {
	if v := ctx.Value(ctxKey(common.CtxKeyRequestID)); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
