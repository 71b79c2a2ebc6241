package main

import (
	"fmt"
	"os"

	"fault-service/internal/auth"
	"fault-service/internal/config"
	"fault-service/internal/db"
	httphandler "fault-service/internal/http"
	"fault-service/internal/http/middleware"
	"fault-service/internal/logger"
	"fault-service/internal/repository"
	"fault-service/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("failed to connect to database")
	}

	faultRepo := repository.NewFaultRepository(database)
	faultService := service.NewFaultService(faultRepo, cfg.Location)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)

	handler := httphandler.NewHandler(faultService, log)
	router := httphandler.NewRouter(handler, middleware.Auth(tokenParser), cfg.Environment, cfg.RateLimit)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Str("timezone", cfg.Location.String()).Msg("starting fault service")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
