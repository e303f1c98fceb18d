package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smartcampus/config"
	"smartcampus/middlewares"
	"smartcampus/repository"
	"smartcampus/routes"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reference backend API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context(), current.cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	log := zap.S()

	var store *repository.Store
	if cfg.MongoURI != "" {
		db, err := config.ConnectDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return err
		}
		defer func() { _ = db.Client().Disconnect(context.Background()) }()
		if err := repository.EnsureIndexes(ctx, db); err != nil {
			return fmt.Errorf("mongo: %w", err)
		}
		store = repository.NewMongo(db)
	} else {
		log.Warnw("MONGODB_URI not set, using in-memory storage", "seed", cfg.SeedDemo)
		store = repository.NewMemory(cfg.SeedDemo)
	}

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "dev-secret"
		log.Warn("JWT_SECRET not set, using an insecure development secret")
	}

	var limiter middlewares.Counter
	rdb, err := config.ConnectRedis(ctx, cfg.RedisAddress, cfg.RedisPassword)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		limiter = middlewares.RedisCounter(rdb)
	} else {
		log.Info("REDIS_ADDRESS not set, issue rate limiting disabled")
	}

	router := routes.NewRouter(routes.Options{
		Store:             store,
		JWTSecret:         secret,
		CORSOrigins:       cfg.CORSOrigins,
		RateLimiter:       limiter,
		IssueRateLimit:    cfg.IssueRateLimit,
		OutbreakThreshold: cfg.OutbreakThreshold,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Infow("backend listening", "addr", srv.Addr, "env", cfg.Env)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
