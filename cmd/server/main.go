package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stocklane/warehouse-service/config"
	"github.com/stocklane/warehouse-service/internal/auth"
	"github.com/stocklane/warehouse-service/internal/broker"
	"github.com/stocklane/warehouse-service/internal/cache"
	"github.com/stocklane/warehouse-service/internal/database"
	"github.com/stocklane/warehouse-service/internal/search"

	dispatchH "github.com/stocklane/warehouse-service/internal/dispatch/handler"
	dispatchUCPkg "github.com/stocklane/warehouse-service/internal/dispatch/usecase"

	ledgerH "github.com/stocklane/warehouse-service/internal/ledger/handler"
	ledgerRepoPkg "github.com/stocklane/warehouse-service/internal/ledger/repository"
	ledgerUCPkg "github.com/stocklane/warehouse-service/internal/ledger/usecase"

	pickingH "github.com/stocklane/warehouse-service/internal/picking/handler"
	pickingListenerPkg "github.com/stocklane/warehouse-service/internal/picking/listener"
	pickingRepoPkg "github.com/stocklane/warehouse-service/internal/picking/repository"
	pickingUCPkg "github.com/stocklane/warehouse-service/internal/picking/usecase"

	putawayH "github.com/stocklane/warehouse-service/internal/putaway/handler"
	putawayRepoPkg "github.com/stocklane/warehouse-service/internal/putaway/repository"
	putawayUCPkg "github.com/stocklane/warehouse-service/internal/putaway/usecase"

	receivingH "github.com/stocklane/warehouse-service/internal/receiving/handler"
	receivingRepoPkg "github.com/stocklane/warehouse-service/internal/receiving/repository"
	receivingUCPkg "github.com/stocklane/warehouse-service/internal/receiving/usecase"

	returnsH "github.com/stocklane/warehouse-service/internal/returns/handler"
	returnsRepoPkg "github.com/stocklane/warehouse-service/internal/returns/repository"
	returnsUCPkg "github.com/stocklane/warehouse-service/internal/returns/usecase"
)

func newLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Encoding == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.Encoding = cfg.Encoding
	zapCfg.DisableCaller = cfg.DisableCaller
	zapCfg.DisableStacktrace = cfg.DisableStacktrace

	return zapCfg.Build()
}

func main() {
	// 1. Load Configuration
	_ = godotenv.Load() // Load .env file if it exists
	cfg := config.LoadEnv()

	// 2. Initialize Logger
	appLogger, err := newLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// 3. Connect to Database
	db, err := database.NewPostgres(&database.Config{
		Host:            cfg.Postgres.Host,
		Port:            cfg.Postgres.Port,
		User:            cfg.Postgres.User,
		Password:        cfg.Postgres.Password,
		DBName:          cfg.Postgres.DBName,
		SSLMode:         cfg.Postgres.SSLMode,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Connected to PostgreSQL database", zap.String("db_name", cfg.Postgres.DBName))

	// 4. Initialize Redis
	redisClient, err := cache.NewRedisClient(&cache.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		appLogger.Fatal("Could not connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))

	// 4.5 Initialize Kafka Consumer
	kafkaConsumer := broker.NewConsumer(&broker.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	defer kafkaConsumer.Close()
	appLogger.Info("Connected to Kafka Consumer", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))

	// 4.8 Initialize Elasticsearch
	esClient, err := search.NewClient(&search.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		appLogger.Warn("Could not connect to Elasticsearch (audit indexing disabled)", zap.Error(err))
		esClient = nil
	} else {
		appLogger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
	}

	// 5. Initialize Repositories
	ledgerRepo := ledgerRepoPkg.NewPGRepository(db)
	receivingRepo := receivingRepoPkg.NewPGRepository(db)
	putawayRepo := putawayRepoPkg.NewPGRepository(db)
	pickingRepo := pickingRepoPkg.NewPGRepository(db)
	returnsRepo := returnsRepoPkg.NewPGRepository(db)

	// 6. Initialize UseCases
	ledgerUC := ledgerUCPkg.NewLedgerUseCase(ledgerRepo, redisClient, esClient, appLogger)
	receivingUC := receivingUCPkg.NewReceivingUseCase(receivingRepo, ledgerUC, appLogger)
	putawayUC := putawayUCPkg.NewPutawayUseCase(putawayRepo, ledgerUC, redisClient, appLogger)
	pickingUC := pickingUCPkg.NewPickingUseCase(pickingRepo, ledgerUC, appLogger)
	dispatchUC := dispatchUCPkg.NewDispatchUseCase(pickingRepo, ledgerUC, appLogger)
	returnsUC := returnsUCPkg.NewReturnsUseCase(returnsRepo, ledgerUC, appLogger)

	// 6.5 Initialize Listeners
	orderListener := pickingListenerPkg.NewOrderListener(kafkaConsumer, pickingUC, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go orderListener.Start(ctx)

	// 7. Initialize Handlers
	ledgerHandler := ledgerH.NewLedgerHandler(ledgerUC, appLogger)
	receivingHandler := receivingH.NewReceivingHandler(receivingUC, appLogger)
	putawayHandler := putawayH.NewPutawayHandler(putawayUC, appLogger)
	pickingHandler := pickingH.NewPickingHandler(pickingUC, appLogger)
	dispatchHandler := dispatchH.NewDispatchHandler(dispatchUC, appLogger)
	returnsHandler := returnsH.NewReturnsHandler(returnsUC, appLogger)

	// 8. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID"},
		MaxAge:         300,
	}))
	r.Use(auth.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		ledgerHandler.Routes(r)
		receivingHandler.Routes(r)
		putawayHandler.Routes(r)
		pickingHandler.Routes(r)
		dispatchHandler.Routes(r)
		returnsHandler.Routes(r)
	})

	// 9. Start HTTP Server
	port := cfg.Server.HTTPPort
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("failed to serve", zap.Error(err))
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", zap.Error(err))
	}
	appLogger.Info("Server stopped")
}
