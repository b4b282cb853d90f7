package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/njprem/DiceArena_BackEnd/internal/config"
	"github.com/njprem/DiceArena_BackEnd/internal/logging"
	"github.com/njprem/DiceArena_BackEnd/internal/metrics"
	"github.com/njprem/DiceArena_BackEnd/internal/repository/firestore"
	"github.com/njprem/DiceArena_BackEnd/internal/repository/ports"
	"github.com/njprem/DiceArena_BackEnd/internal/repository/postgres"
	"github.com/njprem/DiceArena_BackEnd/internal/repository/protocol"
	"github.com/njprem/DiceArena_BackEnd/internal/service"
	transport "github.com/njprem/DiceArena_BackEnd/internal/transport/http"
	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

func main() {
	cfg := config.Load()

	logger, closeLogs, err := logging.New(logging.Options{
		Level:           cfg.LogLevel,
		LogstashTCPAddr: cfg.LogstashTCPAddr,
		Service:         "dice-arena-api",
	})
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
		_ = closeLogs()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	admin, err := util.ParseKeypair(cfg.AdminSecretKey)
	if err != nil {
		logger.Fatal("parse ADMIN_SECRET_KEY", zap.Error(err))
	}
	logger.Info("admin identity loaded", zap.String("authority", admin.PublicKey()))

	fs, err := firestore.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
	if err != nil {
		logger.Fatal("firestore client", zap.Error(err))
	}
	defer fs.Close()

	var ledger ports.ClaimLedger
	if cfg.DatabaseURL != "" {
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("connect database", zap.Error(err))
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			logger.Fatal("migrate database", zap.Error(err))
		}
		ledger = postgres.NewClaimLedgerRepo(db)
		logger.Info("xp claim ledger enabled")
	}

	m := metrics.New()

	protocolClient := protocol.NewClient(cfg.ProtocolEndpoint,
		protocol.WithAPIKey(cfg.ProtocolAPIKey),
		protocol.WithTimeout(cfg.ProtocolTimeout),
		protocol.WithLogger(logger.Named("protocol")),
	)

	tournamentService := service.NewTournamentService(
		firestore.NewTournamentRepo(fs, cfg.TournamentCollection),
		m,
		logger.Named("tournaments"),
	)
	xpService := service.NewXPService(protocolClient, admin, service.XPServiceConfig{
		Ledger:  ledger,
		Metrics: m,
		Logger:  logger.Named("xp"),
	})
	authService := service.NewAuthService(util.NewJWTManager(cfg.JWTSecret), service.AuthServiceConfig{
		AccessTTL:    cfg.AccessTokenTTL,
		ChallengeTTL: cfg.ChallengeTTL,
		Metrics:      m,
		Logger:       logger.Named("auth"),
	})

	e := transport.NewRouter(cfg.AllowOrigins, logger.Named("http"))
	transport.RegisterMetrics(e, m)
	transport.RegisterTournaments(e, tournamentService)
	transport.RegisterXP(e, xpService, transport.XPRoutesConfig{
		RateLimit: cfg.ClaimRateLimit,
		RateBurst: cfg.ClaimRateBurst,
	})
	transport.RegisterAuth(e, authService)
	if cfg.EnableSwagger {
		transport.RegisterSwagger(e, "docs/swagger.yaml", logger.Named("swagger"))
	}

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
