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

	"starlink_crm_backend/internal/config"
	"starlink_crm_backend/internal/database"
	"starlink_crm_backend/internal/router"
	"starlink_crm_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Server exited")
	}
}

// run starts the server and blocks until shutdown or a startup failure.
func run() error {
	// .env is optional; real environment variables take precedence
	if err := utils.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	gin.SetMode(cfg.GinMode)
	utils.InitLogger(cfg.LogLevel, gin.IsDebugging())
	utils.LogDebug("Configuration loaded", map[string]interface{}{
		"port": cfg.Port, "max_clients": cfg.MaxClients, "static_dir": cfg.StaticDir,
		"allowed_origins": cfg.AllowedOrigins,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A database that cannot be reached at startup is unrecoverable.
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			utils.LogError(err, "Error closing database connection")
			return
		}
		utils.LogInfo("Database connection closed")
	}()

	if cfg.Database.RunMigrations {
		if err := database.ApplyMigrations(db); err != nil {
			return fmt.Errorf("error applying database schema: %w", err)
		}
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	engine.Use(cors.New(corsConfig))

	router.Setup(engine, db, cfg.MaxClients)
	if cfg.StaticDir != "" {
		router.SetupFrontendRoutes(engine, cfg.StaticDir)
		utils.LogInfo("Serving frontend", map[string]interface{}{"dir": cfg.StaticDir})
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
	case <-ctx.Done():
	}
	utils.LogInfo("Server shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shut down: %w", err)
	}
	return nil
}
