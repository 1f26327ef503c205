package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"fashionhub-backend/internal/api"
	"fashionhub-backend/internal/api/handler"
	"fashionhub-backend/internal/config"
	"fashionhub-backend/internal/service"
	"fashionhub-backend/internal/store/mongodb"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	client, err := mongodb.Connect(context.Background(), cfg.Mongo.URI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := mongodb.Disconnect(client); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	db := client.Database(cfg.Mongo.DB)
	users := mongodb.NewUserStore(db)
	products := mongodb.NewProductStore(db)
	orders := mongodb.NewOrderStore(db)

	authService := service.NewAuthService(users, []byte(cfg.Auth.JWTSecret), cfg.Auth.AdminEmail, logger)
	cartService := service.NewCartService(users, products, logger)
	orderService := service.NewOrderService(orders, users, products,
		service.AlwaysSucceedVerifier{}, cfg.StrictPricing, logger)

	router := api.NewRouter(cfg, logger, api.Handlers{
		User:    handler.NewUserHandler(authService),
		Product: handler.NewProductHandler(products),
		Cart:    handler.NewCartHandler(cartService),
		Order:   handler.NewOrderHandler(orderService),
	}, authService, users)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
