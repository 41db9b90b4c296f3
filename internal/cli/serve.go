package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/handlers"
	"yatube/internal/middleware"
	"yatube/internal/monitoring"
	"yatube/internal/sessions"
	"yatube/internal/store"
	"yatube/internal/templates"
	"yatube/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), config.Load())
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := utils.EnsureJWTReady(); err != nil {
		return err
	}
	gin.SetMode(cfg.GinMode)

	if err := openDatabase(cfg); err != nil {
		return err
	}
	defer database.CloseDB()

	var revoker sessions.Revoker = sessions.NopRevoker{}
	if cfg.Redis.Addr != "" {
		client, err := sessions.Connect(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		revoker = sessions.NewRedisRevoker(client)
	} else {
		log.Println("REDIS_ADDR is not set, logout will not revoke session tokens server-side")
	}

	h := &handlers.Handler{
		Posts:         store.NewPostStore(database.DB),
		Groups:        store.NewGroupStore(database.DB),
		Users:         store.NewUserStore(database.DB),
		Sessions:      revoker,
		Monitor:       monitoring.NewService(time.Now(), database.DB),
		MonitoringKey: cfg.MonitoringAPIKey,
		SecureCookies: cfg.SecureCookies,
	}
	router, err := newRouter(cfg, h)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("%s Yatube listening on %s", success("✓"), cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newRouter assembles the middleware chain, templates, static files and
// routes.
func newRouter(cfg config.Config, h *handlers.Handler) (*gin.Engine, error) {
	htmlRender, err := templates.Load()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.HTMLRender = htmlRender
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware(),
		monitoring.RequestMetricsMiddleware(),
		middleware.SessionMiddleware(h.Sessions, h.SecureCookies),
	)

	if info, err := os.Stat(cfg.StaticDir); err == nil && info.IsDir() {
		router.Static("/static", cfg.StaticDir)
	}

	h.Register(router)
	return router, nil
}
