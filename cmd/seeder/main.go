package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/gtpons/bankgo"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfp := flag.String("config", "config.yml", "path to configuration file")
	adminEmail := flag.String("admin-email", "admin@bankgo.local", "admin user email")
	adminPass := flag.String("admin-password", "changeme-now", "admin user password")
	flag.Parse()

	cfg, err := bankgo.LoadConfig(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading config file")
	}

	lh, err := bankgo.NewLocalHelper(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting local helper")
	}
	defer lh.Close()
	if _, err = lh.InitDB(); err != nil {
		logger.Fatal().Err(err).Msg("error initializing database")
	}
	num, err := lh.SeedAdmin(*adminEmail, *adminPass)
	if err != nil {
		logger.Fatal().Err(err).Msg("error seeding admin user")
	}
	logger.Info().
		Str("email", *adminEmail).
		Str("account", num.String()).
		Msg("admin user seeded")
}
