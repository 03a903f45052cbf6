// Where: cmd/aca-preview/cli.go
// What: CLI dependency wiring helpers.
// Why: Centralize construction of SDK-backed collaborators for testability.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/poruru/aca-preview/internal/command"
	"github.com/poruru/aca-preview/internal/infra/awsstore"
	"github.com/poruru/aca-preview/internal/infra/azure"
	"github.com/poruru/aca-preview/internal/infra/logging"
	"github.com/poruru/aca-preview/internal/infra/output"
	"github.com/poruru/aca-preview/internal/infra/registry"
	"github.com/poruru/aca-preview/internal/usecase/preview"
)

var (
	newCredential = func() (azcore.TokenCredential, error) {
		return azidentity.NewDefaultAzureCredential(nil)
	}
	newDistributionClient = func() (registry.DistributionClient, error) {
		return registry.NewDockerClient()
	}
)

// buildDependencies returns factories only; nothing authenticates or dials
// until a command asks for it.
func buildDependencies() command.Dependencies {
	return command.Dependencies{
		Out:              os.Stdout,
		ErrOut:           os.Stderr,
		Getwd:            os.Getwd,
		NewControlPlane:  newControlPlane,
		NewLedger:        newLedger,
		NewReportStore:   newReportStore,
		NewImageVerifier: newImageVerifier,
		NewSink:          newSink,
		NewLogger:        logging.New,
	}
}

func newControlPlane(subscriptionID string, settings azure.ClientSettings) (preview.ControlPlane, error) {
	credential, err := newCredential()
	if err != nil {
		return nil, fmt.Errorf("load azure credential: %w", err)
	}
	return azure.NewControlPlane(subscriptionID, credential, settings)
}

func newLedger(ctx context.Context, table string, settings awsstore.Settings) (preview.Ledger, error) {
	return awsstore.NewLedger(ctx, table, settings)
}

func newReportStore(ctx context.Context, bucket string, settings awsstore.Settings) (preview.ReportStore, error) {
	return awsstore.NewReportStore(ctx, bucket, settings)
}

func newImageVerifier(creds registry.Credentials) (preview.ImageVerifier, io.Closer, error) {
	client, err := newDistributionClient()
	if err != nil {
		return nil, nil, err
	}
	return registry.NewVerifier(client, creds), closerFunc(func() error { return registry.Close(client) }), nil
}

func newSink(out io.Writer) preview.Sink {
	return output.FromEnv(out)
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
