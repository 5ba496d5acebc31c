package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"repairshop_backend/internal/backup"
	"repairshop_backend/internal/config"
	"repairshop_backend/internal/database"
	"repairshop_backend/internal/models"
	"repairshop_backend/internal/repositories"
	"repairshop_backend/internal/router"
	"repairshop_backend/internal/seed"
	"repairshop_backend/internal/services"
	"repairshop_backend/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Logger
	utils.InitLogger(cfg.Log)

	store, err := newStore(cfg)
	if err != nil {
		utils.LogError(err, "Failed to initialise record store")
		os.Exit(1)
	}

	var tokens *utils.TokenManager
	if cfg.Auth.Enabled {
		tokens = utils.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}
	svc, err := router.NewServices(store, router.ServiceOptions{
		Location:         cfg.Location,
		NotificationFeed: cfg.NotificationFeed,
		Tokens:           tokens,
		Accounts:         accounts(cfg.Auth),
	})
	if err != nil {
		utils.LogError(err, "Failed to initialise services")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	target, closeTarget, err := newBackupTarget(ctx, cfg.Backup)
	if err != nil {
		utils.LogError(err, "Failed to initialise backup target")
		os.Exit(1)
	}
	defer closeTarget()

	backups := backup.NewManager(store, target, svc.Settings, svc.Events, cfg.Location, cfg.Backup.Timeout)
	if err := backups.Start(ctx); err != nil {
		utils.LogError(err, "Failed to start backup scheduler")
		os.Exit(1)
	}
	defer backups.Stop()

	engine := gin.New()
	engine.Use(gin.Recovery())
	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	// Setup all application routes
	router.Setup(engine, svc, router.Options{
		Tokens:         tokens,
		RequestTimeout: cfg.RequestTimeout,
		Backups:        backups,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{
			"port":          cfg.Port,
			"auth_enabled":  cfg.Auth.Enabled,
			"backup_target": target.Name(),
			"timezone":      cfg.Location.String(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server forced to shut down")
	}
}

func newStore(cfg *config.Config) (*repositories.Store, error) {
	opts := []repositories.StoreOption{repositories.WithLatency(cfg.StoreLatency)}
	if cfg.IDStrategy == config.IDStrategySnowflake {
		gen, err := repositories.NewSnowflakeGenerator(cfg.SnowflakeNode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, repositories.WithIDGenerator(gen))
	}
	store := repositories.NewStore(opts...)

	if !cfg.SeedFixtures {
		return store, nil
	}
	fixtures, err := seed.Fixtures(cfg.FixturesDir)
	if err != nil {
		return nil, err
	}
	if err := seed.Apply(store, fixtures); err != nil {
		return nil, err
	}
	return store, nil
}

func accounts(auth config.AuthConfig) []services.Account {
	var out []services.Account
	if auth.AdminPassword != "" {
		out = append(out, services.Account{Username: auth.AdminUsername, Password: auth.AdminPassword, Role: models.RoleAdmin})
	}
	if auth.StaffPassword != "" {
		out = append(out, services.Account{Username: auth.StaffUsername, Password: auth.StaffPassword, Role: models.RoleStaff})
	}
	return out
}

func newBackupTarget(ctx context.Context, cfg config.BackupConfig) (backup.Target, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case config.BackupDriverPostgres, config.BackupDriverSQLite:
		db, err := database.Open(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		return backup.NewSQLTarget(db), func() { db.Close() }, nil
	case config.BackupDriverS3:
		target, err := backup.NewS3Target(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		return target, noop, nil
	default:
		target, err := backup.NewFileTarget(cfg.Dir)
		if err != nil {
			return nil, noop, err
		}
		return target, noop, nil
	}
}
