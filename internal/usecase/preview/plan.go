// Where: internal/usecase/preview/plan.go
// What: Dry-run planning for publish and deactivate.
// Why: Show what a run would submit without mutating the app.
package preview

import (
	"context"

	"github.com/poruru/aca-preview/internal/domain/envelope"
	"github.com/poruru/aca-preview/internal/domain/revision"
)

// Plan is the outcome of the read-only phase of a run.
type Plan struct {
	Mode     string
	Revision string
	Latest   string
	Desired  *envelope.DesiredState
	Traffic  []revision.Entry
}

// Plan performs naming, the snapshot read and reconciliation (or the
// deactivation safety check) without calling update or deactivate.
func (w Workflow) Plan(ctx context.Context, params TaskParameters) (Plan, error) {
	if w.ControlPlane == nil {
		return Plan{}, errControlPlaneNotConfigured
	}
	if params.Deactivate {
		return w.planDeactivate(ctx, params)
	}
	return w.planPublish(ctx, params)
}
