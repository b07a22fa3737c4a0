package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/Leganyst/appointment-booking/internal/access"
	"github.com/Leganyst/appointment-booking/internal/apperr"
	"github.com/Leganyst/appointment-booking/internal/logging"
)

// Authenticator превращает токен в участника; пустой токен означает анонимный вызов.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*access.Principal, error)
}

// UnaryAuthInterceptor читает "authorization: Bearer <token>" из метаданных
// и кладёт участника в контекст. С невалидным токеном вызов идёт как анонимный,
// закрытые операции отклонит access.Authorize.
func UnaryAuthInterceptor(auth Authenticator) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		token := bearerFromMetadata(ctx)
		p, err := auth.Authenticate(ctx, token)
		if err != nil && !apperr.Is(err, apperr.KindUnauthorized) {
			return nil, toStatus(err)
		}
		if p != nil {
			ctx = access.WithPrincipal(ctx, p)
		}
		return handler(ctx, req)
	}
}

func bearerFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	v := strings.TrimSpace(values[0])
	if len(v) > 7 && strings.EqualFold(v[:7], "bearer ") {
		return strings.TrimSpace(v[7:])
	}
	return v
}

// UnaryLoggingInterceptor добавляет в контекст логгер с request_id и пишет итог вызова.
func UnaryLoggingInterceptor(base *slog.Logger) grpc.UnaryServerInterceptor {
	base = logging.Default(base)
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		requestID := uuid.NewString()
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get("x-request-id"); len(ids) > 0 && ids[0] != "" {
				requestID = ids[0]
			}
		}
		logger := base.With("request_id", requestID, "method", info.FullMethod)
		ctx = logging.ContextWithLogger(ctx, logger)

		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		logger.InfoContext(ctx, "grpc call",
			"code", code.String(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return resp, err
	}
}
