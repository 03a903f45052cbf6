// Where: internal/command/fakes_test.go
// What: Test doubles for command dependencies.
package command

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/poruru/aca-preview/internal/domain/envelope"
	"github.com/poruru/aca-preview/internal/domain/revision"
	"github.com/poruru/aca-preview/internal/infra/awsstore"
	"github.com/poruru/aca-preview/internal/infra/azure"
	"github.com/poruru/aca-preview/internal/infra/registry"
	"github.com/poruru/aca-preview/internal/usecase/preview"
)

type fakeControlPlane struct {
	snapshot  envelope.Snapshot
	fqdn      string
	active    bool
	submitted []envelope.DesiredState
	deactivated []string
	calls     int
}

func (f *fakeControlPlane) GetApp(_ context.Context, _, _ string) (envelope.Snapshot, error) {
	f.calls++
	return f.snapshot, nil
}

func (f *fakeControlPlane) UpdateAppAndWait(_ context.Context, _, _ string, desired envelope.DesiredState) error {
	f.calls++
	f.submitted = append(f.submitted, desired)
	return nil
}

func (f *fakeControlPlane) GetRevision(_ context.Context, _, _, name string) (revision.Revision, error) {
	f.calls++
	return revision.Revision{Name: name, Active: f.active, FQDN: f.fqdn}, nil
}

func (f *fakeControlPlane) DeactivateRevision(_ context.Context, _, _, name string) error {
	f.calls++
	f.deactivated = append(f.deactivated, name)
	f.active = false
	return nil
}

type fakeSink struct {
	outputs  map[string]string
	failures []string
}

func (f *fakeSink) SetOutput(name, value string) error {
	if f.outputs == nil {
		f.outputs = map[string]string{}
	}
	f.outputs[name] = value
	return nil
}

func (f *fakeSink) Fail(msg string) {
	f.failures = append(f.failures, msg)
}

type fakeLedger struct {
	entries []preview.LedgerEntry
}

func (f *fakeLedger) Record(_ context.Context, entry preview.LedgerEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

type fakeReports struct {
	keys []string
}

func (f *fakeReports) Put(_ context.Context, key string, _ []byte) error {
	f.keys = append(f.keys, key)
	return nil
}

type fakeVerifier struct {
	images []string
	closed bool
}

func (f *fakeVerifier) Verify(_ context.Context, image string) (string, error) {
	f.images = append(f.images, image)
	return "sha256:abc", nil
}

func (f *fakeVerifier) Close() error {
	f.closed = true
	return nil
}

// harness wires fakes into Dependencies and records factory inputs.
type harness struct {
	out      bytes.Buffer
	errOut   bytes.Buffer
	cp       *fakeControlPlane
	sink     *fakeSink
	ledger   *fakeLedger
	reports  *fakeReports
	verifier *fakeVerifier

	subscription  string
	client        azure.ClientSettings
	ledgerTable   string
	reportBucket  string
	awsSettings   awsstore.Settings
	registryCreds registry.Credentials
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, key := range []string{"GITHUB_SHA", "AZURE_SUBSCRIPTION_ID", "ACA_PREVIEW_SUBSCRIPTION_ID", "ACA_PREVIEW_COMMIT_SHA"} {
		t.Setenv(key, "")
	}
	return &harness{
		cp: &fakeControlPlane{
			snapshot: envelope.Snapshot{
				Location:             "westeurope",
				ManagedEnvironmentID: "env-id",
				LatestRevisionName:   "app--old1",
				Ingress: &envelope.Ingress{
					External:   true,
					TargetPort: 80,
					Traffic:    []revision.Entry{{Target: revision.FloatingLatest(), Weight: 100}},
				},
			},
			fqdn:   "app-abc1234.example.com",
			active: true,
		},
		sink:     &fakeSink{},
		ledger:   &fakeLedger{},
		reports:  &fakeReports{},
		verifier: &fakeVerifier{},
	}
}

func (h *harness) deps(dir string) Dependencies {
	return Dependencies{
		Out:    &h.out,
		ErrOut: &h.errOut,
		Getwd:  func() (string, error) { return dir, nil },
		Now:    func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) },
		NewControlPlane: func(subscriptionID string, settings azure.ClientSettings) (preview.ControlPlane, error) {
			h.subscription = subscriptionID
			h.client = settings
			return h.cp, nil
		},
		NewLedger: func(_ context.Context, table string, settings awsstore.Settings) (preview.Ledger, error) {
			h.ledgerTable = table
			h.awsSettings = settings
			return h.ledger, nil
		},
		NewReportStore: func(_ context.Context, bucket string, settings awsstore.Settings) (preview.ReportStore, error) {
			h.reportBucket = bucket
			h.awsSettings = settings
			return h.reports, nil
		},
		NewImageVerifier: func(creds registry.Credentials) (preview.ImageVerifier, io.Closer, error) {
			h.registryCreds = creds
			return h.verifier, h.verifier, nil
		},
		NewSink:   func(io.Writer) preview.Sink { return h.sink },
		NewLogger: func(io.Writer, bool) logr.Logger { return logr.Discard() },
	}
}
