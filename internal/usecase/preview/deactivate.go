// Where: internal/usecase/preview/deactivate.go
// What: Deactivate a superseded preview revision.
// Why: Only deactivate without traffic, then confirm the state changed.
package preview

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/poruru/aca-preview/internal/domain/revision"
	"github.com/poruru/aca-preview/internal/infra/ui"
)

func (w Workflow) deactivate(ctx context.Context, params TaskParameters) (Result, error) {
	log := logr.FromContextOrDiscard(ctx)

	plan, err := w.planDeactivate(ctx, params)
	if err != nil {
		return Result{}, err
	}
	name := plan.Revision

	log.Info("deactivating revision", "revision", name)
	if err := w.ControlPlane.DeactivateRevision(ctx, params.ResourceGroup, params.AppName, name); err != nil {
		return Result{}, fmt.Errorf("deactivate revision %s: %w", name, err)
	}

	observed, err := w.ControlPlane.GetRevision(ctx, params.ResourceGroup, params.AppName, name)
	if err != nil {
		return Result{}, fmt.Errorf("read revision %s: %w", name, err)
	}
	if observed.Active {
		return Result{}, fmt.Errorf("%w: revision %s is still active after deactivation", revision.ErrDeactivationNotConfirmed, name)
	}

	result := Result{Mode: params.Mode(), Revision: name}
	if err := w.record(ctx, params, result, StateDeactivated); err != nil {
		return Result{}, err
	}

	w.block("🧹", "Preview revision", []ui.KeyValue{
		{Key: "Revision", Value: name},
		{Key: "State", Value: StateDeactivated},
	})
	w.success(fmt.Sprintf("Deactivated revision %s", name))
	return result, nil
}

// planDeactivate resolves the target and checks it carries no traffic.
func (w Workflow) planDeactivate(ctx context.Context, params TaskParameters) (Plan, error) {
	name, err := revision.ComposeName(params.AppName, params.RevisionSuffix)
	if err != nil {
		return Plan{}, err
	}
	if err := requireTarget(params); err != nil {
		return Plan{}, err
	}

	snapshot, err := w.ControlPlane.GetApp(ctx, params.ResourceGroup, params.AppName)
	if err != nil {
		return Plan{}, fmt.Errorf("read container app %s: %w", params.AppName, err)
	}
	traffic := snapshot.Traffic()
	if err := revision.CheckDeactivation(traffic, snapshot.LatestRevisionName, name); err != nil {
		return Plan{}, err
	}
	return Plan{Mode: params.Mode(), Revision: name, Latest: snapshot.LatestRevisionName, Traffic: traffic}, nil
}
