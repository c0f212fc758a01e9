// Package main starts the API to manage users, accounts and money movements.
package main

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/go-demi/demi-bank/cmd/httpserver"
	"github.com/go-demi/demi-bank/internal/middleware"
	"github.com/go-demi/demi-bank/pkg/configpkg"
	"github.com/go-demi/demi-bank/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	var rdb *redis.Client
	if config.RedisAddress != "" {
		rdb = redis.NewClient(&redis.Options{Addr: config.RedisAddress})
	}

	server, err := httpserver.New(db, rdb, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Msg("BANK API SERVER HAS STARTED")

	err = server.Engine.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
