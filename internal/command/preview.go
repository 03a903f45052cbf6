// Where: internal/command/preview.go
// What: run and plan command adapters.
// Why: Turn resolved settings into a wired preview workflow.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-logr/logr"
	"github.com/poruru/aca-preview/internal/domain/revision"
	"github.com/poruru/aca-preview/internal/infra/config"
	"github.com/poruru/aca-preview/internal/infra/ui"
	"github.com/poruru/aca-preview/internal/meta"
	"github.com/poruru/aca-preview/internal/usecase/preview"
	"github.com/poruru/aca-preview/internal/version"
)

type (
	// PreviewFlags are shared by run and plan.
	PreviewFlags struct {
		ResourceGroup  string `short:"g" name:"resource-group" help:"Resource group of the container app"`
		App            string `short:"n" name:"app" help:"Container app name"`
		RevisionSuffix string `short:"s" name:"revision-suffix" help:"Revision suffix (overrides --suffix-template)"`
		SuffixTemplate string `name:"suffix-template" help:"Template for the revision suffix (sprig functions; fields: CommitSHA, PullRequest, AppName)"`
		Image          string `short:"i" name:"image" help:"Container image reference to publish"`
		SubscriptionID string `name:"subscription-id" env:"ACA_PREVIEW_SUBSCRIPTION_ID,AZURE_SUBSCRIPTION_ID" help:"Azure subscription id"`
		Deactivate     bool   `name:"deactivate" help:"Deactivate the revision instead of publishing it"`
		PullRequest    string `name:"pull-request" help:"Pull request number recorded with the revision"`
		CommitSHA      string `name:"commit-sha" env:"ACA_PREVIEW_COMMIT_SHA,GITHUB_SHA" help:"Commit SHA recorded with the revision"`

		Timeout       time.Duration `name:"timeout" help:"Overall deadline (default: 10m)"`
		PollFrequency time.Duration `name:"poll-frequency" help:"Interval between long-running operation polls (default: 5s)"`
		MaxRetries    int           `name:"max-retries" default:"-1" help:"Transport retries per request; 0 disables (default: 3)"`
		RetryDelay    time.Duration `name:"retry-delay" help:"Initial delay between transport retries (default: 2s)"`

		VerifyImage      bool   `name:"verify-image" help:"Resolve the image in its registry before updating the app"`
		RegistryUsername string `name:"registry-username" help:"Registry username for --verify-image"`
		RegistryPassword string `name:"registry-password" help:"Registry password for --verify-image"`

		LedgerTable  string `name:"ledger-table" help:"DynamoDB table recording preview revisions"`
		ReportBucket string `name:"report-bucket" help:"S3 bucket receiving run reports"`
		ReportPrefix string `name:"report-prefix" help:"Key prefix for run reports"`
		AWSRegion    string `name:"aws-region" help:"AWS region for the ledger and reports"`
		AWSEndpoint  string `name:"aws-endpoint" help:"AWS endpoint override (local stacks)"`
	}

	RunCmd struct {
		PreviewFlags `embed:""`
	}

	PlanCmd struct {
		PreviewFlags `embed:""`
	}
)

// runPreview executes publish or deactivate. Failures before the workflow
// starts are reported to the sink here; the workflow reports its own.
func runPreview(cli CLI, deps Dependencies) int {
	out := deps.Out
	console := consoleUI(out, cli.NoEmoji)
	if deps.NewSink == nil {
		return exitWithError(out, errors.New("output sink is not configured"))
	}
	sink := deps.NewSink(out)
	log := deps.NewLogger(deps.ErrOut, cli.Verbose)

	fail := func(err error) int {
		log.Error(err, "preview run aborted")
		sink.Fail(err.Error())
		return 1
	}

	settings, err := loadSettings(cli, cli.Run.PreviewFlags, deps, log)
	if err != nil {
		return fail(err)
	}

	ctx, cancel := context.WithTimeout(logr.NewContext(context.Background(), log), settings.Timeout)
	defer cancel()

	workflow, closeAll, err := buildWorkflow(ctx, settings, deps, sink, console)
	defer closeAll()
	if err != nil {
		return fail(err)
	}

	if _, err := workflow.Run(ctx, settings.Params); err != nil {
		return 1
	}
	return 0
}

// runPlan prints the desired state or the deactivation verdict.
func runPlan(cli CLI, deps Dependencies) int {
	out := deps.Out
	console := consoleUI(out, cli.NoEmoji)
	log := deps.NewLogger(deps.ErrOut, cli.Verbose)

	settings, err := loadSettings(cli, cli.Plan.PreviewFlags, deps, log)
	if err != nil {
		return exitWithError(out, err)
	}
	// Planning never writes bookkeeping.
	settings.LedgerTable = ""
	settings.ReportBucket = ""

	ctx, cancel := context.WithTimeout(logr.NewContext(context.Background(), log), settings.Timeout)
	defer cancel()

	workflow, closeAll, err := buildWorkflow(ctx, settings, deps, nil, console)
	defer closeAll()
	if err != nil {
		return exitWithError(out, err)
	}

	plan, err := workflow.Plan(ctx, settings.Params)
	if err != nil {
		return exitWithError(out, err)
	}

	if plan.Desired == nil {
		console.Block("🔎", "Deactivation plan", []ui.KeyValue{
			{Key: "Revision", Value: plan.Revision},
			{Key: "Traffic weight", Value: revision.WeightFor(plan.Traffic, plan.Latest, plan.Revision)},
		})
		console.Success(fmt.Sprintf("Revision %s can be deactivated", plan.Revision))
		return 0
	}
	body, err := plan.Desired.Canonical()
	if err != nil {
		return exitWithError(out, fmt.Errorf("encode desired state: %w", err))
	}
	console.Block("🔎", "Publish plan", []ui.KeyValue{
		{Key: "Revision", Value: plan.Revision},
		{Key: "Image", Value: settings.Params.Image},
	})
	fmt.Fprintln(out, string(body))
	return 0
}

func loadSettings(cli CLI, flags PreviewFlags, deps Dependencies, log logr.Logger) (runSettings, error) {
	cwd, err := deps.Getwd()
	if err != nil {
		return runSettings{}, fmt.Errorf("resolve working directory: %w", err)
	}
	file, path, err := config.Resolve(cli.Config, cwd)
	if err != nil {
		return runSettings{}, fmt.Errorf("%w: %w", revision.ErrInvalidConfiguration, err)
	}
	if path != "" {
		log.V(1).Info("loaded config file", "path", path)
	}
	return resolveSettings(flags, file)
}

// buildWorkflow constructs the collaborators the settings ask for. The
// returned func closes anything opened, even on error.
func buildWorkflow(
	ctx context.Context,
	settings runSettings,
	deps Dependencies,
	sink preview.Sink,
	console ui.UserInterface,
) (preview.Workflow, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, closer := range closers {
			_ = closer.Close()
		}
	}

	if deps.NewControlPlane == nil {
		return preview.Workflow{}, closeAll, errors.New("control plane factory is not configured")
	}
	settings.Client.ApplicationID = meta.AppName
	controlPlane, err := deps.NewControlPlane(settings.Params.SubscriptionID, settings.Client)
	if err != nil {
		return preview.Workflow{}, closeAll, fmt.Errorf("create control plane client: %w", err)
	}

	workflow := preview.Workflow{
		ControlPlane:  controlPlane,
		Sink:          sink,
		UserInterface: console,
		ReportPrefix:  settings.ReportPrefix,
		Marker:        meta.MarkerValue + "/" + version.GetVersion(),
		Now:           deps.Now,
	}

	if settings.VerifyImage && !settings.Params.Deactivate {
		if deps.NewImageVerifier == nil {
			return preview.Workflow{}, closeAll, errors.New("image verifier factory is not configured")
		}
		verifier, closer, err := deps.NewImageVerifier(settings.Registry)
		if err != nil {
			return preview.Workflow{}, closeAll, fmt.Errorf("create image verifier: %w", err)
		}
		if closer != nil {
			closers = append(closers, closer)
		}
		workflow.ImageVerifier = verifier
	}
	if settings.LedgerTable != "" {
		if deps.NewLedger == nil {
			return preview.Workflow{}, closeAll, errors.New("ledger factory is not configured")
		}
		ledger, err := deps.NewLedger(ctx, settings.LedgerTable, settings.AWS)
		if err != nil {
			return preview.Workflow{}, closeAll, fmt.Errorf("create ledger: %w", err)
		}
		workflow.Ledger = ledger
	}
	if settings.ReportBucket != "" {
		if deps.NewReportStore == nil {
			return preview.Workflow{}, closeAll, errors.New("report store factory is not configured")
		}
		reports, err := deps.NewReportStore(ctx, settings.ReportBucket, settings.AWS)
		if err != nil {
			return preview.Workflow{}, closeAll, fmt.Errorf("create report store: %w", err)
		}
		workflow.Reports = reports
	}
	return workflow, closeAll, nil
}
