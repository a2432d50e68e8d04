package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"shop-backend/internal/auth"
	"shop-backend/internal/config"
	"shop-backend/internal/db"
	httpHandler "shop-backend/internal/handler/http"
	"shop-backend/internal/order"
	"shop-backend/internal/product"
	"shop-backend/internal/user"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "shop-backend").Logger()

	log.Info().Msg("Shop backend starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	database, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}

	userRepo := user.NewRepository(database.Pool)
	userSvc := user.NewService(userRepo)

	productRepo := product.NewRepository(database.Pool)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(database.Pool)
	orderSvc := order.NewService(orderRepo)

	tokens := auth.NewTokenManager(cfg.App.TokenSecret, cfg.App.TokenTTL)

	router := httpHandler.NewRouter(userSvc, productSvc, orderSvc, tokens)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	database.Close()

	log.Info().Msg("Shop backend stopped gracefully.")
}
