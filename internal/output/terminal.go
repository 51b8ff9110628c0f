package output

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether stream is an interactive terminal. Anything
// other than an *os.File, such as a test buffer, is not.
func IsTerminal(stream any) bool {
	file, ok := stream.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
