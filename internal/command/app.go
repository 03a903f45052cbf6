// Where: internal/command/app.go
// What: CLI entrypoint logic.
// Why: Provide a testable command dispatcher.
package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
	"github.com/poruru/aca-preview/internal/infra/awsstore"
	"github.com/poruru/aca-preview/internal/infra/azure"
	"github.com/poruru/aca-preview/internal/infra/logging"
	"github.com/poruru/aca-preview/internal/infra/registry"
	"github.com/poruru/aca-preview/internal/meta"
	"github.com/poruru/aca-preview/internal/usecase/preview"
	"github.com/poruru/aca-preview/internal/version"
)

// Dependencies holds all injected dependencies required for CLI command execution.
// Factories are invoked only when the resolved settings need them.
type Dependencies struct {
	Out    io.Writer
	ErrOut io.Writer
	Getwd  func() (string, error)
	Now    func() time.Time

	NewControlPlane  ControlPlaneFactory
	NewLedger        LedgerFactory
	NewReportStore   ReportStoreFactory
	NewImageVerifier ImageVerifierFactory
	NewSink          SinkFactory
	NewLogger        func(out io.Writer, verbose bool) logr.Logger
}

type (
	ControlPlaneFactory func(subscriptionID string, settings azure.ClientSettings) (preview.ControlPlane, error)

	LedgerFactory func(ctx context.Context, table string, settings awsstore.Settings) (preview.Ledger, error)

	ReportStoreFactory func(ctx context.Context, bucket string, settings awsstore.Settings) (preview.ReportStore, error)

	// ImageVerifierFactory returns a verifier and an optional closer for its client.
	ImageVerifierFactory func(creds registry.Credentials) (preview.ImageVerifier, io.Closer, error)

	SinkFactory func(out io.Writer) preview.Sink
)

// CLI defines the command-line interface structure parsed by Kong.
// It contains global flags and all subcommand definitions.
type CLI struct {
	Config  string `short:"c" name:"config" help:"Path to config file (default: discover .aca-preview.yaml upward)"`
	EnvFile string `name:"env-file" help:"Path to .env file"`
	Verbose bool   `short:"v" help:"Verbose diagnostics"`
	NoEmoji bool   `name:"no-emoji" help:"Disable emoji output"`

	Run     RunCmd     `cmd:"" default:"withargs" help:"Publish a zero-traffic preview revision, or deactivate one with --deactivate"`
	Plan    PlanCmd    `cmd:"" help:"Show what run would submit without changing the app"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

type VersionCmd struct{}

// Run is the main entry point for CLI command execution.
// It parses the command-line arguments, identifies the requested command,
// and dispatches to the appropriate handler. Returns 0 on success, 1 on error.
func Run(args []string, deps Dependencies) int {
	deps = withDefaults(deps)
	out := deps.Out

	cli := CLI{}
	parser, err := kong.New(
		&cli,
		kong.Name(meta.AppName),
		kong.Description("Manage pull-request preview revisions of an Azure Container App."),
		kong.DefaultEnvars(meta.EnvPrefix),
		kong.Writers(out, deps.ErrOut),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return exitWithError(out, err)
	}

	ctx, err := parser.Parse(args)
	// --help prints usage through kong; the exit hook above keeps us running.
	if helpRequested(args) {
		return 0
	}
	if err != nil {
		return exitWithError(out, err)
	}

	if err := loadEnvFile(cli.EnvFile); err != nil {
		consoleUI(out, cli.NoEmoji).Warn(fmt.Sprintf("Warning: %v", err))
	}
	// Flags bound to env vars are resolved at parse time, so re-parse once the
	// env file is loaded.
	if cli.EnvFile != "" {
		cli = CLI{}
		if ctx, err = parser.Parse(args); err != nil {
			return exitWithError(out, err)
		}
	}

	if exitCode, handled := dispatchCommand(ctx.Command(), cli, deps); handled {
		return exitCode
	}

	consoleUI(out, cli.NoEmoji).Warn("unknown command")
	return 1
}

type commandHandler func(CLI, Dependencies) int

func dispatchCommand(command string, cli CLI, deps Dependencies) (int, bool) {
	handlers := map[string]commandHandler{
		"run":     runPreview,
		"plan":    runPlan,
		"version": runVersion,
	}
	if handler, ok := handlers[command]; ok {
		return handler(cli, deps), true
	}
	return 1, false
}

// runVersion prints the version information of the CLI.
func runVersion(cli CLI, deps Dependencies) int {
	consoleUI(deps.Out, cli.NoEmoji).Info(version.GetVersion())
	return 0
}

// loadEnvFile loads path without overriding variables already set.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func helpRequested(args []string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func withDefaults(deps Dependencies) Dependencies {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	if deps.ErrOut == nil {
		deps.ErrOut = os.Stderr
	}
	if deps.Getwd == nil {
		deps.Getwd = os.Getwd
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewLogger == nil {
		deps.NewLogger = logging.New
	}
	return deps
}
