package api

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var adminMethods = map[string]bool{
	"/" + decisionEngineService + "/Dashboard": true,
	"/" + decisionEngineService + "/Override":  true,
}

// UnaryLoggingInterceptor logs every unary call with its status code and latency.
func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", code.String()),
			zap.Duration("latency", time.Since(start)),
		}
		switch code {
		case codes.OK:
			logger.Info("gRPC request", fields...)
		case codes.Internal, codes.Unknown, codes.DataLoss:
			logger.Error("gRPC request", append(fields, zap.Error(err))...)
		default:
			logger.Warn("gRPC request", append(fields, zap.Error(err))...)
		}
		return resp, err
	}
}

// UnaryAdminInterceptor requires an admin bearer token in the "authorization"
// metadata for the admin methods. An empty secret disables the check.
func UnaryAdminInterceptor(secret string, logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if secret == "" || !adminMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		var authHeader string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(strings.ToLower(authHeaderKey)); len(v) > 0 {
				authHeader = v[0]
			}
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			logger.Warn("admin authentication failed", zap.String("method", info.FullMethod), zap.String("reason", "missing bearer token"))
			return nil, status.Error(codes.Unauthenticated, "missing bearer token")
		}
		claims, err := parseAdminToken(secret, strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			logger.Warn("admin authentication failed", zap.String("method", info.FullMethod), zap.Error(err))
			if errors.Is(err, ErrNotAdmin) {
				return nil, status.Error(codes.PermissionDenied, err.Error())
			}
			return nil, status.Error(codes.Unauthenticated, err.Error())
		}
		return handler(context.WithValue(ctx, adminCtxKey{}, claims.Subject), req)
	}
}
