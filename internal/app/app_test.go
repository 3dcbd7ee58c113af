package app

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/robalobadob/rps/internal/commit"
	"github.com/robalobadob/rps/internal/config"
	"github.com/robalobadob/rps/internal/rules"
)

func parse(t *testing.T, args ...string) (Options, error) {
	t.Helper()
	fs := flag.NewFlagSet("rps", flag.ContinueOnError)
	fs.SetOutput(&bytes.Buffer{})
	return ParseOptions(fs, args)
}

func TestParseOptionsPositionalMoves(t *testing.T) {
	opts, err := parse(t, "rock", "paper", "scissors")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if opts.Serve || opts.Verify {
		t.Fatalf("unexpected mode %+v", opts)
	}
	if !reflect.DeepEqual(opts.Moves, []string{"rock", "paper", "scissors"}) {
		t.Fatalf("unexpected moves %v", opts.Moves)
	}
}

func TestParseOptionsServe(t *testing.T) {
	opts, err := parse(t, "-serve", "-addr", ":9000", "a", "b", "c")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !opts.Serve || opts.Addr != ":9000" || len(opts.Moves) != 3 {
		t.Fatalf("unexpected options %+v", opts)
	}
}

func TestParseOptionsErrors(t *testing.T) {
	for _, args := range [][]string{
		{"-invalid"},
		{"-serve", "-verify", "-move", "a", "-key", "b", "-hmac", "c"},
		{"-verify", "-move", "rock"},
	} {
		if _, err := parse(t, args...); err == nil {
			t.Fatalf("expected error for %v", args)
		}
	}
}

func TestRunRejectsInvalidMoveSets(t *testing.T) {
	for _, moves := range [][]string{
		{"rock"},
		{"rock", "paper", "scissors", "lizard"},
		{"rock", "rock", "paper"},
	} {
		var out bytes.Buffer
		err := Run(Options{Moves: moves}, config.Config{}, strings.NewReader("1\n"), &out, nil)
		var verr *rules.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%v: expected *rules.ValidationError, got %v", moves, err)
		}
		if out.Len() != 0 {
			t.Fatalf("%v: nothing should be printed before validation, got %q", moves, out.String())
		}
	}
}

func TestRunPlaysOneRound(t *testing.T) {
	src := bytes.NewReader(append([]byte{0x01}, bytes.Repeat([]byte{0x0f}, commit.KeySize)...))
	var out bytes.Buffer
	opts := Options{Moves: []string{"rock", "paper", "scissors"}}
	if err := Run(opts, config.Config{}, strings.NewReader("3\n"), &out, src); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Computer move: paper", "You win!", "HMAC key: " + strings.Repeat("0F", commit.KeySize)} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestRunDefaultMoves(t *testing.T) {
	var out bytes.Buffer
	if err := Run(Options{}, config.Config{}, strings.NewReader("0\n"), &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "5 - spock") {
		t.Fatalf("expected default five moves, got:\n%s", out.String())
	}
}

func TestRunVerify(t *testing.T) {
	k, _ := commit.GenerateKey(nil)
	d := commit.Digest(k, "spock")

	var out bytes.Buffer
	if err := Run(Options{Verify: true, Move: "spock", Key: k.String(), HMAC: d}, config.Config{}, nil, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(out.String()) != "valid" {
		t.Fatalf("expected valid, got %q", out.String())
	}

	out.Reset()
	if err := Run(Options{Verify: true, Move: "rock", Key: k.String(), HMAC: d}, config.Config{}, nil, &out, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.TrimSpace(out.String()) != "invalid" {
		t.Fatalf("expected invalid, got %q", out.String())
	}

	if err := Run(Options{Verify: true, Move: "rock", Key: "zz", HMAC: d}, config.Config{}, nil, &out, nil); err == nil {
		t.Fatal("expected error for malformed key")
	}
}

func TestRunNilOutput(t *testing.T) {
	if err := Run(Options{}, config.Config{}, nil, nil, nil); err == nil {
		t.Fatal("expected error for nil output")
	}
}

func TestResolveMoves(t *testing.T) {
	got, err := ResolveMoves([]string{"x", "y", "z"}, "ignored.txt")
	if err != nil || !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Fatalf("args should win, got %v, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "moves.txt")
	if err := os.WriteFile(path, []byte("fire\nwater\nearth\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err = ResolveMoves(nil, path)
	if err != nil || !reflect.DeepEqual(got, []string{"fire", "water", "earth"}) {
		t.Fatalf("file should be used, got %v, %v", got, err)
	}

	got, err = ResolveMoves(nil, "")
	if err != nil || len(got) != 5 {
		t.Fatalf("default should be used, got %v, %v", got, err)
	}
}
