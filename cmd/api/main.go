package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "shopledger/api/swagger" // swagger docs
	"shopledger/internal/config"
	"shopledger/internal/database"
	"shopledger/internal/handler"
	"shopledger/internal/ledger"
	"shopledger/internal/logger"
	"shopledger/internal/middleware"
	"shopledger/internal/observability"
	"shopledger/internal/repository"
	"shopledger/internal/service"
	"shopledger/internal/websocket"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
)

// persistence is the storage selected by configuration.
type persistence struct {
	snapshots repository.SnapshotRepository
	journal   repository.JournalRepository
	tx        repository.TransactionManager
	close     func() error
}

// @title           Shop Ledger API
// @version         1.0
// @description     Billing, stock, dealer and payment ledger for a single retail shop.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configFile := flag.String("config", "configs/config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := openPersistence(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			log.Warn().Err(err).Msg("failed to close persistence backend")
		}
	}()

	initial, version, err := service.Rehydrate(ctx, store.snapshots, cfg.Shop)
	if err != nil {
		return err
	}
	log.Info().Str("backend", cfg.Persistence.Backend).Uint64("version", version).Msg("ledger rehydrated")

	metrics := observability.NewMetrics()
	wsHub := websocket.NewHub()

	ledgerStore := ledger.NewStore(initial, version)
	mirror := service.NewSnapshotMirror(store.snapshots, store.journal, store.tx, metrics, cfg.Persistence.FlushInterval)
	ledgerStore.Subscribe(service.NewNotifier(wsHub, metrics).Listen)
	ledgerStore.Subscribe(mirror.Listen)

	// Set up dependencies (Store -> Service -> Handler)
	now := service.Clock(time.Now)
	renderer := service.NewDocumentRenderer()
	auth := middleware.NewAuth(cfg.Auth.JWTSecret, cfg.Auth.Enabled)

	handlers := []interface {
		RegisterRoutes(*gin.RouterGroup, *middleware.Auth)
	}{
		handler.NewLedgerHandler(service.NewLedgerService(ledgerStore, now)),
		handler.NewInvoiceHandler(service.NewInvoiceService(ledgerStore, renderer, now)),
		handler.NewQuotationHandler(service.NewQuotationService(ledgerStore, renderer, now)),
		handler.NewInventoryHandler(service.NewInventoryService(ledgerStore, now)),
		handler.NewDealerHandler(service.NewDealerService(ledgerStore, now)),
		handler.NewTransactionHandler(service.NewTransactionService(ledgerStore, renderer, now), now),
		handler.NewCustomerHandler(service.NewCustomerService(ledgerStore, now)),
		handler.NewAlertHandler(service.NewAlertService(ledgerStore, now)),
	}
	if store.journal != nil {
		handlers = append(handlers, handler.NewJournalHandler(service.NewJournalService(store.journal)))
	}

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger.WithComponent("http")), metrics.GinMiddleware())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CorsAllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "version": ledgerStore.Version(), "saved_version": mirror.SavedVersion()})
	})
	var wsSecret []byte
	if cfg.Auth.Enabled {
		wsSecret = auth.Secret()
	}
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, wsSecret, middleware.RoleOwner, middleware.RoleStaff)
	})

	api := router.Group("")
	for _, h := range handlers {
		h.RegisterRoutes(api, auth)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		wsHub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return mirror.Run(gctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openPersistence(ctx context.Context, cfg *config.Config) (*persistence, error) {
	key := cfg.Persistence.Key
	noClose := func() error { return nil }

	switch cfg.Persistence.Backend {
	case config.BackendPostgres:
		db, err := database.NewConnection(cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		log.Info().Msg("connected to PostgreSQL")
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &persistence{
			snapshots: repository.NewPostgresSnapshotRepository(db, key),
			journal:   repository.NewJournalRepository(db),
			tx:        repository.NewTransactionManager(db),
			close:     sqlDB.Close,
		}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		return &persistence{
			snapshots: repository.NewRedisSnapshotRepository(client, key),
			tx:        repository.NewNoopTransactionManager(),
			close:     client.Close,
		}, nil

	case config.BackendS3:
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3.Region)}
		if cfg.S3.AccessKeyID != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.S3.AccessKeyID,
				cfg.S3.SecretAccessKey,
				"",
			)))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to configure s3 client: %w", err)
		}
		client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.S3.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
				o.UsePathStyle = true
			}
		})
		return &persistence{
			snapshots: repository.NewS3SnapshotRepository(client, cfg.S3.Bucket, key),
			tx:        repository.NewNoopTransactionManager(),
			close:     noClose,
		}, nil

	default:
		log.Warn().Msg("memory persistence: state is lost on restart")
		return &persistence{
			snapshots: repository.NewMemorySnapshotRepository(),
			journal:   repository.NewMemoryJournalRepository(),
			tx:        repository.NewNoopTransactionManager(),
			close:     noClose,
		}, nil
	}
}
