package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-learner/internal/entity"
	"github.com/rocketscienceinc/tictactoe-learner/internal/tictactoe"
)

var ErrInvalidInput = errors.New("invalid move input")

// Human is an agent driven by text input. It never learns.
type Human struct {
	player  entity.Player
	scanner *bufio.Scanner
	out     io.Writer
}

func NewHuman(player entity.Player, in io.Reader, out io.Writer) *Human {
	return &Human{
		player:  player,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// DetermineMove prompts until it reads an open cell. It returns false once
// the input is exhausted.
func (that *Human) DetermineMove(view tictactoe.View) (int, bool) {
	available := view.AvailableCells()

	Render(that.out, view)
	for {
		fmt.Fprintf(that.out, "%s to move (row col): ", that.player)
		if !that.scanner.Scan() {
			fmt.Fprintln(that.out)
			return 0, false
		}

		cell, err := ParseMove(that.scanner.Text(), view.Rows(), view.Cols())
		if err != nil {
			fmt.Fprintln(that.out, err)
			continue
		}

		if !slices.Contains(available, cell) {
			fmt.Fprintln(that.out, "that cell is taken")
			continue
		}

		return cell, true
	}
}

func (that *Human) Learn(tictactoe.View, tictactoe.GameResult) {}

// ParseMove reads "row col" or "row,col" (1-based) or a single 1-based cell
// number counted row by row.
func ParseMove(input string, rows, cols int) (int, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	switch len(fields) {
	case 1:
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 1 || n > rows*cols {
			return 0, fmt.Errorf("%w: cell must be between 1 and %d", ErrInvalidInput, rows*cols)
		}

		return n - 1, nil
	case 2:
		row, errRow := strconv.Atoi(fields[0])
		col, errCol := strconv.Atoi(fields[1])
		if errRow != nil || errCol != nil || row < 1 || row > rows || col < 1 || col > cols {
			return 0, fmt.Errorf("%w: row must be 1-%d and col 1-%d", ErrInvalidInput, rows, cols)
		}

		return (row-1)*cols + (col - 1), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidInput, input)
	}
}
