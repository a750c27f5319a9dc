package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vishwas-ledger/config"
	httpHandler "vishwas-ledger/internal/adapter/http/handler"
	"vishwas-ledger/internal/adapter/ledger"
	memStorage "vishwas-ledger/internal/adapter/storage/memory"
	pgStorage "vishwas-ledger/internal/adapter/storage/postgres"
	redisStorage "vishwas-ledger/internal/adapter/storage/redis"
	"vishwas-ledger/internal/core/ports"
	"vishwas-ledger/internal/service"
	"vishwas-ledger/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("VSL_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("ledger", cfg.Ledger.Driver).
		Msg("Starting Vishwas ledger engine")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	if err := pgStorage.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply schema")
	}
	log.Info().Msg("PostgreSQL connected")

	// Redis
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Ledger
	ledgerClient, err := ledger.New(ctx, cfg.Ledger, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise ledger client")
	}
	log.Info().Str("driver", ledgerClient.Name()).Msg("Ledger client ready")

	// Repositories
	txRepo := pgStorage.NewTransactionRepo(pool)
	accountRepo := pgStorage.NewAccountRepo(pool)
	counterpartyRepo := pgStorage.NewCounterpartyRepo(pool)
	catalogRepo := pgStorage.NewCatalogRepo(pool)
	historyRepo := pgStorage.NewHistoryRepo(pool)
	batchRepo := pgStorage.NewBatchRepo(pool)
	attemptRepo := pgStorage.NewLedgerAttemptRepo(pool)
	promptRepo := pgStorage.NewPromptRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Redis-backed stores
	nonceStore := redisStorage.NewNonceStore(rdb)
	historyCache := redisStorage.NewHistoryCache(rdb)
	jobLock := redisStorage.NewJobLock(rdb)

	var pendingSet ports.PendingSet = redisStorage.NewPendingSet(rdb, redisStorage.DefaultReceiptTTL)
	if cfg.Ledger.Pending == "memory" {
		log.Warn().Msg("ledger pending-set is in-process; run a single instance")
		pendingSet = memStorage.NewPendingSet()
	}
	var rateLimitStore ports.RateLimitStore = redisStorage.NewRateLimitStore(rdb)
	if cfg.RateLimit.Backend == "memory" {
		rateLimitStore = memStorage.NewRateLimitStore()
	}

	// Core services
	hashSvc := service.NewSHA3HashService()
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Issuer)
	detector := service.NewRuleFraudDetector(service.FraudThresholds{
		CreditMultiple:  cfg.Fraud.CreditMultiple,
		FrequencyLimit:  cfg.Fraud.FrequencyLimit,
		FrequencyWindow: cfg.Fraud.FrequencyWindow,
		OffHoursStart:   cfg.Fraud.OffHoursStart,
		OffHoursEnd:     cfg.Fraud.OffHoursEnd,
		PriceBand:       cfg.Fraud.PriceBand,
		CriticalScore:   cfg.Fraud.CriticalScore,
		Location:        config.Location(cfg.Fraud.Timezone),
	})
	historySvc := service.NewHistorySnapshotService(
		historyRepo, catalogRepo, historyCache,
		cfg.Fraud.HistoryTTL, cfg.Fraud.FrequencyWindow, log,
	)

	writer := service.NewLedgerWriter(service.LedgerWriterDeps{
		Client:     ledgerClient,
		Pending:    pendingSet,
		Hasher:     hashSvc,
		TxRepo:     txRepo,
		Batches:    batchRepo,
		Accounts:   accountRepo,
		Attempts:   attemptRepo,
		Transactor: transactor,
		Config: service.LedgerWriterConfig{
			FeePerWrite: cfg.Ledger.FeePerWrite,
			Timeout:     cfg.Ledger.Timeout,
			MaxRetries:  cfg.Reconcile.MaxRetries,
			BackoffBase: cfg.Reconcile.BackoffBase,
			BackoffMax:  cfg.Reconcile.BackoffMax,
		},
		Logger: log,
	})
	queue := service.NewLedgerQueue(cfg.Queue.Size, cfg.Queue.Workers, txRepo, writer, log)

	notifier := service.NewPromptNotifier(
		cfg.Confirmation.PromptURL,
		cfg.Confirmation.Secret,
		sigSvc,
		promptRepo,
		&http.Client{Timeout: cfg.Confirmation.HTTPTimeout},
		nil,
		log,
	)
	defer notifier.Close()

	verifySvc := service.NewVerificationService(service.VerificationDeps{
		TxRepo:         txRepo,
		Accounts:       accountRepo,
		Counterparties: counterpartyRepo,
		Transactor:     transactor,
		Hasher:         hashSvc,
		Detector:       detector,
		History:        historySvc,
		Queue:          queue,
		Notifier:       notifier,
		Logger:         log,
	})
	reportingSvc := service.NewReportingService(txRepo, attemptRepo)

	reconciler := service.NewReconciliationService(txRepo, batchRepo, writer, jobLock, service.ReconcileConfig{
		GracePeriod: cfg.Reconcile.GracePeriod,
		MaxRetries:  cfg.Reconcile.MaxRetries,
		BatchSize:   cfg.Reconcile.BatchSize,
		LockTTL:     cfg.Reconcile.LockTTL,
	}, nil, log)

	cutover, _ := config.ParseCutover(cfg.Aggregator.Cutover) // validated in config.Load
	loc := config.Location(cfg.Aggregator.Timezone)
	aggregator := service.NewAggregatorService(txRepo, batchRepo, transactor, hashSvc, writer, cutover, loc, nil, log)
	scheduler := service.NewScheduler(reconciler, aggregator, cfg.Reconcile.Interval, cutover, loc, log)

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		VerifySvc:          verifySvc,
		ReportingSvc:       reportingSvc,
		Reconciler:         reconciler,
		SigSvc:             sigSvc,
		TokenSvc:           tokenSvc,
		NonceStore:         nonceStore,
		ConfirmationSecret: cfg.Confirmation.Secret,
		SignatureMaxDrift:  cfg.Confirmation.MaxDrift,
		NonceTTL:           cfg.Confirmation.NonceTTL,
		RateLimitStore:     rateLimitStore,
		HealthCheckers: []ports.HealthChecker{
			pgStorage.NewHealthCheck(pool),
			redisStorage.NewHealthCheck(rdb),
			ledgerClient,
		},
		Logger: log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return queue.Run(gctx) })
	g.Go(func() error { return scheduler.Run(gctx) })
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Server stopped with error")
	}
	log.Info().Msg("Server exited")
}
