// Where: internal/command/output.go
// What: Output helpers for command adapters.
// Why: Centralize UserInterface usage and error lines.
package command

import (
	"io"

	"github.com/poruru/aca-preview/internal/infra/ui"
)

func consoleUI(out io.Writer, noEmoji bool) ui.UserInterface {
	return ui.NewConsoleUI(out, !noEmoji)
}

// exitWithError prints an error message to the output writer and returns
// exit code 1 for CLI error handling.
func exitWithError(out io.Writer, err error) int {
	ui.NewConsoleUI(out, true).Error(err.Error())
	return 1
}
