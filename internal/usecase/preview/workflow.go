// Where: internal/usecase/preview/workflow.go
// What: Preview revision workflow entrypoints.
// Why: Run publish/deactivate as one linear, fail-fast invocation.
package preview

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/go-logr/logr"
	"github.com/poruru/aca-preview/internal/domain/envelope"
	"github.com/poruru/aca-preview/internal/infra/ui"
)

var (
	errControlPlaneNotConfigured = errors.New("control plane client is not configured")
	errSinkNotConfigured         = errors.New("output sink is not configured")
)

// Workflow executes preview revision operations against one container app.
type Workflow struct {
	ControlPlane  ControlPlane
	Sink          Sink
	UserInterface ui.UserInterface
	ImageVerifier ImageVerifier
	Ledger        Ledger
	Reports       ReportStore
	ReportPrefix  string
	Marker        string
	Now           func() time.Time
}

// Result summarizes a successful invocation.
type Result struct {
	Mode     string
	Revision string
	URL      string
	Desired  *envelope.DesiredState
}

// Run publishes or deactivates according to params.Deactivate. Any failure is
// reported once to the sink; the run marker is restored on every path.
func (w Workflow) Run(ctx context.Context, params TaskParameters) (Result, error) {
	if w.ControlPlane == nil {
		return Result{}, errControlPlaneNotConfigured
	}
	if w.Sink == nil {
		return Result{}, errSinkNotConfigured
	}

	restore, err := setMarker(w.Marker)
	defer restore()
	if err != nil {
		w.Sink.Fail(err.Error())
		return Result{}, err
	}

	log := logr.FromContextOrDiscard(ctx).WithValues(
		"mode", params.Mode(),
		"resourceGroup", params.ResourceGroup,
		"app", params.AppName,
	)
	ctx = logr.NewContext(ctx, log)

	var result Result
	if params.Deactivate {
		result, err = w.deactivate(ctx, params)
	} else {
		result, err = w.publish(ctx, params)
	}
	if err != nil {
		log.Error(err, "preview run failed")
		w.Sink.Fail(err.Error())
		return Result{}, err
	}
	return result, nil
}

func (w Workflow) now() time.Time {
	if w.Now != nil {
		return w.Now().UTC()
	}
	return time.Now().UTC()
}

func (w Workflow) success(msg string) {
	if w.UserInterface != nil {
		w.UserInterface.Success(msg)
	}
}

func (w Workflow) block(emoji, title string, rows []ui.KeyValue) {
	if w.UserInterface != nil {
		w.UserInterface.Block(emoji, title, rows)
	}
}

// record writes the ledger row and the run report when configured.
func (w Workflow) record(ctx context.Context, params TaskParameters, result Result, state string) error {
	now := w.now()
	if w.Ledger != nil {
		err := w.Ledger.Record(ctx, LedgerEntry{
			App:         params.AppName,
			Revision:    result.Revision,
			PullRequest: params.PullRequest,
			CommitSHA:   params.CommitSHA,
			Image:       params.Image,
			URL:         result.URL,
			State:       state,
			UpdatedAt:   now,
		})
		if err != nil {
			return fmt.Errorf("record revision %s in ledger: %w", result.Revision, err)
		}
	}
	if w.Reports != nil {
		body, err := newReport(params, result, state, now).encode()
		if err != nil {
			return fmt.Errorf("encode run report: %w", err)
		}
		key := path.Join(w.ReportPrefix, params.AppName, result.Revision, result.Mode+".json")
		if err := w.Reports.Put(ctx, key, body); err != nil {
			return fmt.Errorf("upload run report %s: %w", key, err)
		}
		logr.FromContextOrDiscard(ctx).V(1).Info("uploaded run report", "key", key)
	}
	return nil
}
