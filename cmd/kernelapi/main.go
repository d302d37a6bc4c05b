// Command kernelapi serves the kernel's HTTP surface.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/scieloorg/kernel-sub000/internal/corelog"
	"github.com/scieloorg/kernel-sub000/internal/domain"
	"github.com/scieloorg/kernel-sub000/internal/httpapi"
	"github.com/scieloorg/kernel-sub000/internal/objectstore"
	"github.com/scieloorg/kernel-sub000/internal/service"
	"github.com/scieloorg/kernel-sub000/internal/session"
	"github.com/scieloorg/kernel-sub000/internal/store/mongostore"
)

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func main() {
	defer corelog.Sync()

	dsn := envOr("APP_MONGODB_DSN", "mongodb://db:27017/")
	dbName := envOr("APP_MONGODB_DBNAME", "kernel")
	addr := envOr("APP_HTTP_ADDR", ":6543")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// NewClient does not connect; the connection is opened by the first
	// Database call, which happens right here at startup, before the server
	// begins listening.
	mongoClient := mongostore.NewClient(dsn, dbName)
	db, err := mongoClient.Database(ctx)
	if err != nil {
		corelog.Error("failed to reach mongodb", zap.Error(err))
		os.Exit(1)
	}

	sess := session.New(
		mongostore.NewDocumentRepository(db),
		mongostore.NewBundleRepository(db),
		mongostore.NewJournalRepository(db),
		mongostore.NewChangesRepository(db),
	)

	objClient := objectstore.NewClient()
	fetch := domain.AssetsFetcher(objClient.FetchAssets)
	svc := service.NewService(sess, nil, fetch)

	if envOr("KERNEL_APP_PROMETHEUS_ENABLED", "false") == "true" {
		startMetricsServer(envOr("KERNEL_APP_PROMETHEUS_PORT", "9100"))
	}

	server := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(svc),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	corelog.Info("kernelapi listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		corelog.Error("server exited", zap.Error(err))
		os.Exit(1)
	}
}

// startMetricsServer exposes /metrics on its own port, tolerating the port
// already being in use rather than failing the whole process over it.
func startMetricsServer(port string) {
	if _, err := strconv.Atoi(port); err != nil {
		corelog.Error("invalid prometheus port", zap.String("port", port))
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
			corelog.Error("metrics server exited", zap.Error(err))
		}
	}()
}
