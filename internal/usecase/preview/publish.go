// Where: internal/usecase/preview/publish.go
// What: Publish a zero-traffic preview revision.
// Why: Submit the reconciled desired state and confirm the revision exists.
package preview

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/poruru/aca-preview/internal/domain/envelope"
	"github.com/poruru/aca-preview/internal/domain/revision"
	"github.com/poruru/aca-preview/internal/infra/ui"
)

func (w Workflow) publish(ctx context.Context, params TaskParameters) (Result, error) {
	log := logr.FromContextOrDiscard(ctx)

	plan, err := w.planPublish(ctx, params)
	if err != nil {
		return Result{}, err
	}
	name := plan.Revision

	log.Info("submitting desired state", "revision", name, "image", params.Image)
	if err := w.ControlPlane.UpdateAppAndWait(ctx, params.ResourceGroup, params.AppName, *plan.Desired); err != nil {
		return Result{}, fmt.Errorf("update container app %s: %w", params.AppName, err)
	}

	observed, err := w.ControlPlane.GetRevision(ctx, params.ResourceGroup, params.AppName, name)
	if err != nil {
		if errors.Is(err, revision.ErrNotFound) {
			return Result{}, fmt.Errorf("%w: revision %s not found after update", revision.ErrDeploymentFailed, name)
		}
		return Result{}, fmt.Errorf("read revision %s: %w", name, err)
	}
	log.V(1).Info("revision observed", "revision", observed.Name, "active", observed.Active, "fqdn", observed.FQDN)

	result := Result{Mode: params.Mode(), Revision: name, Desired: plan.Desired}
	if plan.Desired.Ingress != nil {
		result.URL = observed.URL()
	}
	if result.URL != "" {
		if err := w.Sink.SetOutput(OutputAppURL, result.URL); err != nil {
			return Result{}, fmt.Errorf("write output %s: %w", OutputAppURL, err)
		}
	} else {
		log.Info("no public endpoint for revision", "revision", name)
	}

	if err := w.record(ctx, params, result, StatePublished); err != nil {
		return Result{}, err
	}

	rows := []ui.KeyValue{
		{Key: "Revision", Value: name},
		{Key: "Image", Value: params.Image},
	}
	if result.URL != "" {
		rows = append(rows, ui.KeyValue{Key: "URL", Value: result.URL})
	}
	w.block("🚀", "Preview revision", rows)
	w.success(fmt.Sprintf("Published revision %s", name))
	return result, nil
}

// planPublish runs every read-only step of publish and returns the desired
// state that would be submitted.
func (w Workflow) planPublish(ctx context.Context, params TaskParameters) (Plan, error) {
	name, err := revision.ComposeName(params.AppName, params.RevisionSuffix)
	if err != nil {
		return Plan{}, err
	}
	if err := requireTarget(params); err != nil {
		return Plan{}, err
	}
	if params.Image == "" {
		return Plan{}, fmt.Errorf("%w: image reference is required", revision.ErrInvalidConfiguration)
	}

	if w.ImageVerifier != nil {
		digest, err := w.ImageVerifier.Verify(ctx, params.Image)
		if err != nil {
			return Plan{}, fmt.Errorf("%w: image %s: %v", revision.ErrInvalidConfiguration, params.Image, err)
		}
		logr.FromContextOrDiscard(ctx).V(1).Info("image resolved", "image", params.Image, "digest", digest)
	}

	snapshot, err := w.ControlPlane.GetApp(ctx, params.ResourceGroup, params.AppName)
	if err != nil {
		return Plan{}, fmt.Errorf("read container app %s: %w", params.AppName, err)
	}

	traffic, err := revision.Reconcile(snapshot.Traffic(), snapshot.LatestRevisionName, name)
	if err != nil {
		return Plan{}, err
	}
	desired, err := envelope.Build(snapshot, traffic, envelope.Params{
		AppName:        params.AppName,
		RevisionSuffix: params.RevisionSuffix,
		Image:          params.Image,
	})
	if err != nil {
		return Plan{}, err
	}
	if len(snapshot.Scale.Rules) > 0 {
		logr.FromContextOrDiscard(ctx).V(1).Info("replacing live scale rules", "rules", scaleRuleNames(snapshot.Scale.Rules))
	}
	return Plan{Mode: params.Mode(), Revision: name, Latest: snapshot.LatestRevisionName, Desired: &desired, Traffic: traffic}, nil
}

func requireTarget(params TaskParameters) error {
	if params.ResourceGroup == "" {
		return fmt.Errorf("%w: resource group is required", revision.ErrInvalidConfiguration)
	}
	return nil
}

func scaleRuleNames(rules []envelope.ScaleRule) []string {
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.Name)
	}
	return names
}
