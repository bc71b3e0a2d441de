package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockwatch/internal/config"
	delivery "stockwatch/internal/delivery/http"
	"stockwatch/internal/monitor"
	"stockwatch/internal/notifier"
	"stockwatch/internal/quote"
	"stockwatch/internal/repository"
	"stockwatch/internal/service"
	"stockwatch/pkg/logger"
	"stockwatch/pkg/postgres"
	"stockwatch/pkg/redis"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the stockwatch service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting StockWatch", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	stockRepo := repository.NewStockRepository(db.DB)
	targetRepo := repository.NewPriceTargetRepository(db.DB)

	// Initialize quote client
	quoteClient, err := quote.NewYahooClient(cfg.Quotes, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize quote client", logger.ErrorField(err))
	}

	// Initialize notification channels
	var channels []notifier.Channel
	if cfg.SMTP.Enabled {
		channels = append(channels, notifier.NewEmailNotifier(cfg.SMTP))
	}
	if cfg.Telegram.Enabled {
		telegramNotifier, err := notifier.NewTelegramNotifier(cfg.Telegram)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
		channels = append(channels, telegramNotifier)
	}
	if len(channels) == 0 {
		appLogger.Warn("No notification channels enabled, alerts will not be delivered")
	}
	alertNotifier := notifier.NewMulti(appLogger, channels...)

	// Initialize the price monitor
	monitorOpts, stopTimeout, err := monitorOptions(cfg.Monitor)
	if err != nil {
		appLogger.Fatal("Invalid monitor configuration", logger.ErrorField(err))
	}
	priceMonitor := monitor.New(stockRepo, targetRepo, quoteClient, alertNotifier, redisClient, appLogger, monitorOpts)
	if cfg.Monitor.StartOnBoot {
		priceMonitor.Start()
	}

	// Initialize services
	stockSvc := service.NewStockService(stockRepo, quoteClient, appLogger)
	targetSvc := service.NewPriceTargetService(stockRepo, targetRepo, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	stockHandler := delivery.NewStockHandler(stockSvc, targetSvc, appLogger)
	stockHandler.RegisterRoutes(apiV1.Group("/stocks"))

	targetHandler := delivery.NewTargetHandler(targetSvc, appLogger)
	targetHandler.RegisterRoutes(apiV1.Group("/targets"))

	monitorHandler := delivery.NewMonitorHandler(priceMonitor, stopTimeout, appLogger)
	monitorHandler.RegisterRoutes(apiV1.Group("/monitor"))

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down...")

	priceMonitor.Stop(stopTimeout)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func monitorOptions(cfg config.Monitor) (monitor.Options, time.Duration, error) {
	var opts monitor.Options
	var err error

	if cfg.CycleInterval != "" {
		if opts.CycleInterval, err = time.ParseDuration(cfg.CycleInterval); err != nil {
			return opts, 0, fmt.Errorf("invalid cycle_interval: %w", err)
		}
	}
	if cfg.StockDelay != "" {
		if opts.StockDelay, err = time.ParseDuration(cfg.StockDelay); err != nil {
			return opts, 0, fmt.Errorf("invalid stock_delay: %w", err)
		}
	}
	if cfg.AlertCooldown != "" {
		if opts.AlertCooldown, err = time.ParseDuration(cfg.AlertCooldown); err != nil {
			return opts, 0, fmt.Errorf("invalid alert_cooldown: %w", err)
		}
	}

	stopTimeout := 5 * time.Second
	if cfg.StopTimeout != "" {
		if stopTimeout, err = time.ParseDuration(cfg.StopTimeout); err != nil {
			return opts, 0, fmt.Errorf("invalid stop_timeout: %w", err)
		}
	}
	return opts, stopTimeout, nil
}

func main() {
	rootCmd := &cobra.Command{Use: "stockwatch"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing stockwatch CLI: %s\n", err)
		os.Exit(1)
	}
}
