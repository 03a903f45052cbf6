// Where: internal/domain/envelope/envelope.go
// What: Desired-state envelope built from a live snapshot.
// Why: Submit a complete replacement of the app's mutable fields in one update.
package envelope

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/poruru/aca-preview/internal/domain/revision"
)

const (
	// HTTPScaleRuleName names the normalized HTTP scaling rule.
	HTTPScaleRuleName = "http-rule"
	// ConcurrentRequests is the per-replica concurrency threshold.
	ConcurrentRequests = 50

	concurrentRequestsKey = "concurrentRequests"
)

// Params carries the per-run inputs of the builder.
type Params struct {
	AppName        string
	RevisionSuffix string
	Image          string
}

// DesiredState is the full configuration submitted to the control plane.
type DesiredState struct {
	Location             string          `json:"location"`
	ManagedEnvironmentID string          `json:"managedEnvironmentId"`
	Ingress              *DesiredIngress `json:"ingress,omitempty"`
	Dapr                 *Dapr           `json:"dapr,omitempty"`
	Scale                Scale           `json:"scale"`
	Containers           []Container     `json:"containers"`
	RevisionSuffix       string          `json:"revisionSuffix"`
}

// DesiredIngress is the ingress block of the desired state.
type DesiredIngress struct {
	External      bool           `json:"external"`
	TargetPort    int32          `json:"targetPort"`
	Traffic       []TrafficEntry `json:"traffic"`
	CustomDomains []CustomDomain `json:"customDomains,omitempty"`
}

// TrafficEntry is a resolved traffic entry; desired state never floats.
type TrafficEntry struct {
	RevisionName   string `json:"revisionName"`
	LatestRevision bool   `json:"latestRevision"`
	Weight         int32  `json:"weight"`
	Label          string `json:"label,omitempty"`
}

// Container is the single app container of the desired state.
type Container struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Build derives the desired state from snapshot and the reconciled traffic.
func Build(snapshot Snapshot, traffic []revision.Entry, params Params) (DesiredState, error) {
	if params.AppName == "" || params.Image == "" || params.RevisionSuffix == "" {
		return DesiredState{}, fmt.Errorf("%w: app name, image and revision suffix are required", revision.ErrInvalidConfiguration)
	}

	desired := DesiredState{
		Location:             snapshot.Location,
		ManagedEnvironmentID: snapshot.ManagedEnvironmentID,
		Dapr:                 copyDapr(snapshot.Dapr),
		Scale: Scale{
			MinReplicas: copyInt32(snapshot.Scale.MinReplicas),
			MaxReplicas: copyInt32(snapshot.Scale.MaxReplicas),
			Rules:       []ScaleRule{httpScaleRule()},
		},
		Containers:     []Container{{Name: params.AppName, Image: params.Image}},
		RevisionSuffix: params.RevisionSuffix,
	}

	if snapshot.Ingress != nil && snapshot.Ingress.External {
		entries, err := resolvedTraffic(traffic)
		if err != nil {
			return DesiredState{}, err
		}
		desired.Ingress = &DesiredIngress{
			External:      true,
			TargetPort:    snapshot.Ingress.TargetPort,
			Traffic:       entries,
			CustomDomains: append([]CustomDomain(nil), snapshot.Ingress.CustomDomains...),
		}
	}
	return desired, nil
}

// Canonical renders the desired state as deterministic JSON.
func (d DesiredState) Canonical() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

func httpScaleRule() ScaleRule {
	return ScaleRule{
		Name:     HTTPScaleRuleName,
		Metadata: map[string]string{concurrentRequestsKey: strconv.Itoa(ConcurrentRequests)},
	}
}

func resolvedTraffic(traffic []revision.Entry) ([]TrafficEntry, error) {
	out := make([]TrafficEntry, 0, len(traffic))
	for _, entry := range traffic {
		if entry.Target.IsLatest() {
			return nil, fmt.Errorf("%w: traffic must be reconciled before building the envelope", revision.ErrInvalidConfiguration)
		}
		out = append(out, TrafficEntry{
			RevisionName: entry.Target.Name(),
			Weight:       entry.Weight,
			Label:        entry.Label,
		})
	}
	return out, nil
}

func copyDapr(in *Dapr) *Dapr {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func copyInt32(in *int32) *int32 {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
