package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/imrishuroy/receipt-points/internal/app"
	"github.com/imrishuroy/receipt-points/internal/config"
	"github.com/imrishuroy/receipt-points/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		// logger level comes from config, so fall back to a default logger here
		logging.GetSugaredLogger(true, "info").Fatalw("failed to load config", "error", err)
	}

	logger := logging.GetSugaredLogger(cfg.RunLocal, cfg.LogLevel)
	defer logger.Sync()

	if !cfg.RunLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("failed to init app", "error", err)
	}

	// if RUN_LOCAL is set to "true", run local HTTP server for development.
	if cfg.RunLocal {
		runLocal(ctx, a, logger)
		return
	}

	// lambda adapter
	adapter := ginadapter.New(a.Router)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		// the adapter handles proxying; use adapter.ProxyWithContext for proper context propagation
		return adapter.ProxyWithContext(ctx, req)
	})
}

// runLocal serves the API and ops listeners until ctx is cancelled, then drains
// in-flight requests and tears the app down.
func runLocal(ctx context.Context, a *app.App, logger *zap.SugaredLogger) {
	api := &http.Server{Addr: a.Config.RunAddress, Handler: a.Router}
	servers := []*http.Server{api}
	if a.Config.MetricsAddress != "" {
		servers = append(servers, &http.Server{Addr: a.Config.MetricsAddress, Handler: a.OpsHandler()})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		logger.Infow("listening", "addr", srv.Addr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Errorw("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.ShutdownGrace)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnw("server shutdown", "addr", srv.Addr, "error", err)
		}
	}
	if err := a.Close(shutdownCtx); err != nil {
		logger.Warnw("app close", "error", err)
	}
	logger.Info("stopped")
}
