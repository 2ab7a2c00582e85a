package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/tictactoe-learner/internal/tictactoe"
)

// Render prints one row per line with cells separated by spaces.
func Render(w io.Writer, view tictactoe.View) {
	key := string(view.Key())
	cols := view.Cols()

	var sb strings.Builder
	for row := 0; row < view.Rows(); row++ {
		line := key[row*cols : (row+1)*cols]
		sb.WriteString(strings.Join(strings.Split(line, ""), " "))
		sb.WriteByte('\n')
	}

	fmt.Fprint(w, sb.String())
}
