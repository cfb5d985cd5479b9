package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"

	"github.com/gtpons/bankgo"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()
	cfg, err := bankgo.LoadConfig(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading config file")
	}

	pgendpt, err := bankgo.NewPostgresEndpoint(cfg.Database.ConnectionString, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting database")
	}
	defer pgendpt.Close()

	node, err := snowflake.NewNode(cfg.Snowflake.Node)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting snowflake node")
	}

	tokens := bankgo.NewTokenIssuer(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute,
	)

	var svc bankgo.Service = bankgo.NewService(pgendpt, node, tokens, &logger)
	limits := &bankgo.ServiceLimits{
		Deposit:  semaphore.NewWeighted(cfg.Limits.Deposit),
		Withdraw: semaphore.NewWeighted(cfg.Limits.Withdraw),
		Transfer: semaphore.NewWeighted(cfg.Limits.Transfer),
	}
	brkrs := bankgo.NewServiceBreaker(gobreaker.Settings{Name: "bankgo"})
	for _, mw := range []bankgo.Middleware{
		bankgo.NewCircuitBreakMiddleware(brkrs),
		bankgo.NewLimitMiddleware(limits),
		bankgo.NewValidationMiddleware(),
	} {
		svc = mw(svc)
	}

	hndlr := bankgo.NewHTTPHandler(svc, tokens, &logger)

	logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
	if err := http.ListenAndServe(cfg.Server.Addr, hndlr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
