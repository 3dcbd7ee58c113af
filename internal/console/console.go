// internal/console/console.go
//
// Interactive terminal driver for one round.
// Flow:
//   1. Show the HMAC committing to the computer's move.
//   2. Loop on the menu until the player picks a move, asks for help (?),
//      exits (0), or input ends.
//   3. On a pick: show both moves, the result, and the revealed key.
//
// Malformed input is reported and the menu is shown again; the round is
// untouched until a valid move is chosen.

package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/robalobadob/rps/internal/game"
	"github.com/robalobadob/rps/internal/rules"
)

// Play runs the menu loop for round r, reading commands from in and
// writing to out. It returns the round result, or nil if the player left
// before choosing.
func Play(r *game.Round, in io.Reader, out io.Writer) (*game.Result, error) {
	fmt.Fprintf(out, "HMAC: %s\n", r.HMAC)

	br := bufio.NewReader(in)
	for {
		writeMenu(out, r.Moves)
		fmt.Fprint(out, "Enter your move: ")
		line, tooLong, err := readLine(br)
		if err != nil {
			fmt.Fprintln(out)
			if errors.Is(err, io.EOF) {
				return nil, nil
			}
			return nil, err
		}
		if tooLong {
			fmt.Fprintln(out, "Invalid input. Please try again.")
			continue
		}

		switch input := strings.TrimSpace(line); input {
		case "0":
			return nil, nil
		case "?":
			if err := WriteHelp(out, r.Moves); err != nil {
				return nil, err
			}
		default:
			choice, err := strconv.Atoi(input)
			if err != nil {
				fmt.Fprintln(out, "Invalid input. Please try again.")
				continue
			}
			res, err := r.PlayIndex(choice)
			var merr *rules.InvalidMoveError
			if errors.As(err, &merr) {
				fmt.Fprintln(out, "Invalid input. Please try again.")
				continue
			}
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(out, "Your move: %s\n", res.PlayerMove)
			fmt.Fprintf(out, "Computer move: %s\n", res.ComputerMove)
			fmt.Fprintln(out, res.Message())
			fmt.Fprintf(out, "HMAC key: %s\n", res.Key)
			return &res, nil
		}
	}
}

// maxLine bounds a single line of player input. Longer lines are read to
// the end and rejected.
const maxLine = 4096

// readLine returns the next line without its terminator. tooLong reports
// that the line exceeded maxLine; its content is then dropped.
func readLine(br *bufio.Reader) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, more, err := br.ReadLine()
		if err != nil {
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > maxLine {
				tooLong, buf = true, nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !more {
			return string(buf), tooLong, nil
		}
	}
}

func writeMenu(out io.Writer, ms rules.MoveSet) {
	fmt.Fprintln(out, "Available moves:")
	for i, m := range ms.Labels() {
		fmt.Fprintf(out, "%d - %s\n", i+1, m)
	}
	fmt.Fprintln(out, "0 - Exit")
	fmt.Fprintln(out, "? - Help")
}

// WriteHelp prints the outcome table for ms. Rows are the player's move,
// columns the computer's.
func WriteHelp(out io.Writer, ms rules.MoveSet) error {
	fmt.Fprintln(out, "Help table:")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	labels := ms.Labels()
	fmt.Fprintf(tw, "User \\ PC\t%s\t\n", strings.Join(labels, "\t"))
	for i, row := range rules.BuildTable(ms) {
		cells := make([]string, len(row))
		for j, o := range row {
			cells[j] = o.TableLabel()
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", labels[i], strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
