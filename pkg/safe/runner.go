package safe

import (
	"context"
	"runtime/debug"

	"go.uber.org/zap"
	"matchcore.io/pkg/logger"
)

// Go starts a goroutine that survives panics. A panic is logged with its
// stack instead of taking down the process.
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(context.Background(), "goroutine panic recovered",
					zap.Any("panic", r),
					zap.String("stack", string(debug.Stack())),
				)
			}
		}()

		fn()
	}()
}

// GoCtx is Go with a context carried through so request ids survive into
// the log entry.
func GoCtx(ctx context.Context, fn func(ctx context.Context)) {
	if ctx == nil {
		ctx = context.Background()
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(ctx, "goroutine panic recovered",
					zap.Any("panic", r),
					zap.String("stack", string(debug.Stack())),
				)
			}
		}()

		fn(ctx)
	}()
}
