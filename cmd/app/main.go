package main

import (
	"context"

	"haven/config"
	"haven/di"
	"haven/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	app := di.InitializeApp()

	if err := app.Auth.SeedAdmin(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	app.HTTP.Serve()
}
