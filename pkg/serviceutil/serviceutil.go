package serviceutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"connectrpc.com/otelconnect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// SignalContext returns a context that is cancelled when Ctrl+C is pressed or
// SIGTERM is received.
func SignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	return ctx
}

// StartHttpServer serves handler over h2c on port until ctx is cancelled.
func StartHttpServer(ctx context.Context, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf("0.0.0.0:%d", port),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			slog.Warn("shutdown http server", "err", err)
		}
	}()

	slog.Info("listening...", "port", port)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func Fatal(message string, err error) {
	slog.Error(message, "err", err.Error())
	os.Exit(1)
}

func ProvideAccessTokenInterceptor(accessToken string) connect.UnaryInterceptorFunc {
	authHeader := fmt.Sprintf("Bearer %s", accessToken)
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if accessToken != "" {
				req.Header().Set("Authorization", authHeader)
			}
			return next(ctx, req)
		}
	}
}

// VerifyAccessTokenInterceptor rejects requests without the bearer token, an
// empty token disables the check.
func VerifyAccessTokenInterceptor(accessToken string) connect.UnaryInterceptorFunc {
	interceptor := func(next connect.UnaryFunc) connect.UnaryFunc {
		if accessToken == "" {
			return next
		}
		return connect.UnaryFunc(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			token := strings.Split(req.Header().Get("Authorization"), " ")
			if len(token) != 2 || token[1] != accessToken {
				return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("Unauthorized"))
			}
			return next(ctx, req)
		})
	}
	return connect.UnaryInterceptorFunc(interceptor)
}

func NewConnectOtelInterceptor() *otelconnect.Interceptor {
	otelIntercept, err := otelconnect.NewInterceptor(
		otelconnect.WithTrustRemote(),
		otelconnect.WithoutServerPeerAttributes(),
	)
	if err != nil {
		Fatal("failed to initialize otel interceptor", err)
	}
	return otelIntercept
}
