package qdrant

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/kailas-cloud/neuralsearch/internal/metrics"
)

// unaryInterceptor logs every RPC at debug level and records its duration.
func unaryInterceptor(log *zap.Logger) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context, method string, req, reply any,
		cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption,
	) error {
		start := time.Now()
		err := invoker(ctx, method, req, reply, cc, opts...)
		elapsed := time.Since(start)

		code := status.Code(err)
		metrics.QdrantRPCDuration.WithLabelValues(method, code.String()).Observe(elapsed.Seconds())

		log.Debug("qdrant rpc",
			zap.String("method", method),
			zap.String("code", code.String()),
			zap.Duration("elapsed", elapsed),
		)
		return err
	}
}
