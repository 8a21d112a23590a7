// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"membership-billing/internal/config"
	"membership-billing/internal/domain/model"
	"membership-billing/internal/domain/ports/adapter"
	payAdapters "membership-billing/internal/infra/adapters/payment"
	pg "membership-billing/internal/infra/db/postgres"
	"membership-billing/internal/infra/logging"
	"membership-billing/internal/infra/metrics"
	red "membership-billing/internal/infra/redis"
	"membership-billing/internal/infra/web"
	"membership-billing/internal/infra/worker"
	"membership-billing/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop gateway, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	go pg.ReportPoolStats(ctx, pool, 15*time.Second)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	planRepo := pg.NewPlanRepoCacheDecorator(pg.NewPostgresPlanRepo(pool), redisClient)
	receiptRepo := pg.NewPostgresReceiptRepo(pool)
	tm := pg.NewTxManager(pool)

	// ---- Payment gateways ----
	returnBase := cfg.Server.BaseURL + "/api/v1/payments"
	paypal, err := payAdapters.NewPayPalGateway(cfg.Payment.PayPal, returnBase+"/paypal/return", returnBase+"/paypal/cancel")
	if err != nil {
		logger.Fatal().Err(err).Msg("paypal gateway")
	}
	vnpay, err := payAdapters.NewVNPayGateway(cfg.Payment.VNPay, returnBase+"/vnpay/return")
	if err != nil {
		logger.Fatal().Err(err).Msg("vnpay gateway")
	}
	gateways := []adapter.PaymentGateway{paypal, vnpay}
	if cfg.Runtime.Dev {
		gateways = append(gateways, payAdapters.NewNoopGateway())
	}

	// ---- Use cases ----
	initiator := usecase.NewPaymentInitiator(userRepo, planRepo, gateways, logger)
	reconciler := usecase.NewCallbackReconciler(paypal, vnpay, logger)
	finalizer := usecase.NewLedgerFinalizer(userRepo, planRepo, receiptRepo, tm, logger)
	planUC := usecase.NewPlanUseCase(planRepo)
	statsUC := usecase.NewStatsUseCase(userRepo, receiptRepo)

	// ---- Settlement queue ----
	settleQueue := red.NewSettlementQueue(redisClient, cfg.Queue.Name, logger)

	var consumer *worker.Consumer
	if cfg.Queue.Worker {
		consumer = worker.NewConsumer(settleQueue, func(ctx context.Context, req *model.SettlementRequest) error {
			_, err := finalizer.Finalize(ctx, req)
			return err
		}, cfg.Queue.Workers, logger)
		consumer.Start(ctx)
		logger.Info().Int("workers", cfg.Queue.Workers).Msg("settlement consumer started")
	}

	// ---- HTTP ----
	auth := web.NewAdminAuth(cfg.Security.JWTSecret, !cfg.Runtime.Dev, "", 30*time.Minute)
	srv := web.NewServer(initiator, reconciler, finalizer, settleQueue, planUC, statsUC, auth, cfg.Admin.Password, cfg.Queue.Worker, logger)

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	public := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: mux}

	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	adminMux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	admin := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Admin.Port), Handler: adminMux}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("public server listening")
		if err := public.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("public server")
		}
	}()
	go func() {
		logger.Info().Int("port", cfg.Admin.Port).Msg("admin server listening")
		if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("admin server")
		}
	}()

	// ---- Shutdown ----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = public.Shutdown(shutdownCtx)
	_ = admin.Shutdown(shutdownCtx)
	cancel()
	if consumer != nil {
		consumer.Stop()
	}
}
