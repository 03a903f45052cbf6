// Where: internal/usecase/preview/ports.go
// What: Collaborator interfaces for the preview workflow.
// Why: Keep control-plane, ledger and output I/O behind narrow seams.
package preview

import (
	"context"
	"time"

	"github.com/poruru/aca-preview/internal/domain/envelope"
	"github.com/poruru/aca-preview/internal/domain/revision"
)

// ControlPlane is the container-app management API.
// GetRevision returns an error wrapping revision.ErrNotFound for unknown revisions.
type ControlPlane interface {
	GetApp(ctx context.Context, resourceGroup, name string) (envelope.Snapshot, error)
	UpdateAppAndWait(ctx context.Context, resourceGroup, name string, desired envelope.DesiredState) error
	GetRevision(ctx context.Context, resourceGroup, appName, revisionName string) (revision.Revision, error)
	DeactivateRevision(ctx context.Context, resourceGroup, appName, revisionName string) error
}

// Sink receives named outputs and the failure annotation of a run.
type Sink interface {
	SetOutput(name, value string) error
	Fail(msg string)
}

// ImageVerifier confirms an image reference resolves in its registry.
type ImageVerifier interface {
	Verify(ctx context.Context, image string) (digest string, err error)
}

// Ledger records revision lifecycle transitions.
type Ledger interface {
	Record(ctx context.Context, entry LedgerEntry) error
}

// ReportStore persists run reports.
type ReportStore interface {
	Put(ctx context.Context, key string, body []byte) error
}

// LedgerEntry is one row of the revision ledger.
type LedgerEntry struct {
	App         string
	Revision    string
	PullRequest string
	CommitSHA   string
	Image       string
	URL         string
	State       string
	UpdatedAt   time.Time
}

const (
	// StatePublished marks a revision created with zero traffic.
	StatePublished = "published"
	// StateDeactivated marks a revision confirmed inactive.
	StateDeactivated = "deactivated"
)
