package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookbot/internal/auth"
	"bookbot/internal/books"
	"bookbot/internal/cache"
	"bookbot/internal/chat"
	"bookbot/internal/dataset"
	"bookbot/internal/googlebooks"
	"bookbot/internal/scraper"
	"bookbot/pkg/utils"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg := utils.Load()

	// every dependency degrades gracefully: a missing dataset, dead Redis
	// or absent API key never stops the server
	table := dataset.Load(cfg.DatasetPath, logger)
	store := cache.New(cfg.RedisAddr, cfg.RedisDB, logger)
	google := googlebooks.New(cfg.GoogleBooksBaseURL, cfg.GoogleBooksAPIKey, store, logger)
	service := books.NewService(table, google, logger)

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := chat.NewHub(0)
	chatHandler := chat.NewHandler(service, cfg.RasaURL, logger)
	chatHandler.RegisterRoutes(router)
	router.GET("/ws/chat", chat.WSHandler(hub, chatHandler))

	books.NewHandler(service).RegisterRoutes(router)
	scraper.NewHandler(scraper.New(logger)).RegisterRoutes(router)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":                  "healthy",
			"timestamp":               time.Now(),
			"message":                 "Book Chatbot API is running!",
			"dataset_loaded":          !table.Empty(),
			"total_books":             table.Len(),
			"google_books_available":  cfg.GoogleBooksAPIKey != "",
			"cache_enabled":           store.Enabled(),
			"ws_clients":              hub.Count(),
		})
	})

	// Admin
	tokenSvc := auth.TokenService{
		Secret:   []byte(cfg.JWTSecret),
		Issuer:   cfg.JWTIssuer,
		Duration: cfg.JWTDuration,
	}
	admin := router.Group("/admin")
	auth.NewHandler(tokenSvc, cfg.AdminUser, cfg.AdminPassword, cfg.AdminPasswordHash).RegisterRoutes(admin)

	protected := admin.Group("")
	protected.Use(auth.AuthMiddleware(tokenSvc))
	protected.DELETE("/cache", func(c *gin.Context) {
		if err := store.Flush(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cache flush failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "flushed"})
	})

	httpSrv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API server listening", zap.String("addr", cfg.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", zap.Error(err))
	}
	logger.Info("server stopped")
}
