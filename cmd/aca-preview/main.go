// Where: cmd/aca-preview/main.go
// What: CLI entrypoint.
// Why: Execute preview commands with production dependencies.
package main

import (
	"os"

	"github.com/poruru/aca-preview/internal/command"
)

func main() {
	os.Exit(command.Run(os.Args[1:], buildDependencies()))
}
