// Package app wires configuration, move lists and the game drivers
// behind the command line.
//
// Modes:
//   - play (default): one interactive round on the terminal.
//   - -serve: the single-player HTTP API.
//   - -verify: check a revealed move and key against a digest.
package app

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rps/assets"
	"github.com/robalobadob/rps/internal/commit"
	"github.com/robalobadob/rps/internal/config"
	"github.com/robalobadob/rps/internal/console"
	"github.com/robalobadob/rps/internal/game"
	"github.com/robalobadob/rps/internal/httpserver"
	"github.com/robalobadob/rps/internal/rules"
	"github.com/robalobadob/rps/internal/store"
)

// Options holds the command-line selection.
type Options struct {
	Serve  bool
	Addr   string
	Verify bool
	Move   string
	Key    string
	HMAC   string
	Moves  []string // positional arguments
}

// ParseOptions parses flags into Options.
func ParseOptions(fs *flag.FlagSet, args []string) (Options, error) {
	var opts Options
	fs.BoolVar(&opts.Serve, "serve", false, "serve the HTTP API instead of playing in the terminal")
	fs.StringVar(&opts.Addr, "addr", "", "listen address for -serve (default :$PORT)")
	fs.BoolVar(&opts.Verify, "verify", false, "verify a revealed move and key against an HMAC")
	fs.StringVar(&opts.Move, "move", "", "revealed computer move (with -verify)")
	fs.StringVar(&opts.Key, "key", "", "revealed HMAC key, hex (with -verify)")
	fs.StringVar(&opts.HMAC, "hmac", "", "HMAC shown before the round (with -verify)")
	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	opts.Moves = fs.Args()
	if opts.Serve && opts.Verify {
		return Options{}, errors.New("-serve and -verify are mutually exclusive")
	}
	if opts.Verify && (opts.Move == "" || opts.Key == "" || opts.HMAC == "") {
		return Options{}, errors.New("-verify needs -move, -key and -hmac")
	}
	return opts, nil
}

// Run executes the selected mode. in/out are the terminal streams and src
// the randomness source (crypto/rand when nil).
func Run(opts Options, cfg config.Config, in io.Reader, out io.Writer, src io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if opts.Verify {
		ok, err := commit.VerifyHex(opts.Move, opts.Key, opts.HMAC)
		if err != nil {
			return err
		}
		if ok {
			_, err = fmt.Fprintln(out, "valid")
		} else {
			_, err = fmt.Fprintln(out, "invalid")
		}
		return err
	}

	labels, err := ResolveMoves(opts.Moves, cfg.MovesFile)
	if err != nil {
		return err
	}
	ms, err := rules.NewMoveSet(labels)
	if err != nil {
		return err
	}

	if opts.Serve {
		addr := opts.Addr
		if addr == "" {
			addr = ":" + cfg.Port
		}
		srv := httpserver.New(store.NewMemoryStore(cfg.RoundTTL), ms, httpserver.Options{
			ClientOrigin: cfg.ClientOrigin,
			Source:       src,
		})
		log.Info().Str("addr", addr).Strs("moves", ms.Labels()).Dur("roundTTL", cfg.RoundTTL).Msg("starting rps server")
		return srv.Start(addr)
	}

	r, err := game.New(ms, src)
	if err != nil {
		return err
	}
	log.Debug().Str("roundId", r.ID).Int("moves", ms.Len()).Msg("round committed")
	res, err := console.Play(r, in, out)
	if err != nil {
		return err
	}
	if res != nil {
		log.Debug().Str("roundId", r.ID).Str("outcome", string(res.Outcome)).Msg("round revealed")
	}
	return nil
}

// ResolveMoves picks the move list: positional args first, then the
// configured file, then the embedded default.
func ResolveMoves(args []string, movesFile string) ([]string, error) {
	switch {
	case len(args) > 0:
		return args, nil
	case movesFile != "":
		return assets.LoadMoves(movesFile)
	default:
		return assets.DefaultMoves()
	}
}
