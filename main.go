package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rps/internal/app"
	"github.com/robalobadob/rps/internal/config"
	"github.com/robalobadob/rps/internal/rules"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	// Logs go to stderr so they never interleave with the game on stdout.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	opts, err := app.ParseOptions(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("parse flags")
	}

	err = app.Run(opts, cfg, os.Stdin, os.Stdout, nil)
	var verr *rules.ValidationError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(os.Stderr, "Error: Provide an odd number of at least 3 unique moves.")
		fmt.Fprintln(os.Stderr, "Example: rock paper scissors lizard Spock")
		log.Debug().Err(err).Msg("rejected move set")
		os.Exit(1)
	case err != nil:
		log.Fatal().Err(err).Msg("rps exited")
	}
}
