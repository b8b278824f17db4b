package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/babalugats76/quizdini-2.0-learn/internal/httpserver"
	"github.com/babalugats76/quizdini-2.0-learn/internal/matches"
	"github.com/babalugats76/quizdini-2.0-learn/internal/pings"
	"github.com/babalugats76/quizdini-2.0-learn/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	db, err := openDB(getEnv("SQLITE_PATH", "./data/quizdini.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	defs := matches.NewCached(matches.NewStore(db))
	sessions := store.NewMemoryStore()
	srv := httpserver.New(sessions, defs, pings.NewStore(db))

	port := getEnv("PORT", "5001")
	log.Info().Str("port", port).Msg("starting quizdini-go")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
