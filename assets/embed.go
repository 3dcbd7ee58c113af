package assets

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default_moves.txt
var FS embed.FS

// ReadMoves reads one move label per line. Blank lines and lines starting
// with "#" are skipped. Labels keep their case.
func ReadMoves(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// DefaultMoves returns the embedded five-move list.
func DefaultMoves() ([]string, error) {
	f, err := FS.Open("default_moves.txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMoves(f)
}

// LoadMoves reads a move list from a file on disk.
func LoadMoves(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open moves file: %w", err)
	}
	defer f.Close()
	return ReadMoves(f)
}
