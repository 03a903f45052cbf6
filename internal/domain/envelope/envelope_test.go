// Where: internal/domain/envelope/envelope_test.go
// What: Tests for desired-state building.
// Why: Pin ingress omission, scale normalization and determinism.
package envelope

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/poruru/aca-preview/internal/domain/revision"
)

func int32Ptr(v int32) *int32 { return &v }
func boolPtr(v bool) *bool    { return &v }

func fixtureSnapshot() Snapshot {
	return Snapshot{
		Location:             "westeurope",
		ManagedEnvironmentID: "/subscriptions/sub/resourceGroups/rg/providers/Microsoft.App/managedEnvironments/env",
		LatestRevisionName:   "app--old1",
		Ingress: &Ingress{
			External:   true,
			TargetPort: 80,
			Traffic:    []revision.Entry{{Target: revision.FloatingLatest(), Weight: 100}},
			CustomDomains: []CustomDomain{
				{Name: "preview.example.com", BindingType: "SniEnabled", CertificateID: "cert-1"},
			},
		},
		Dapr: &Dapr{Enabled: boolPtr(true), AppID: "app", AppPort: int32Ptr(8080), AppProtocol: "http"},
		Scale: Scale{
			MinReplicas: int32Ptr(0),
			MaxReplicas: int32Ptr(3),
			Rules: []ScaleRule{
				{Name: "queue", Metadata: map[string]string{"queueLength": "10"}},
			},
		},
	}
}

func fixtureParams() Params {
	return Params{AppName: "app", RevisionSuffix: "abc1234", Image: "registry.example.com/app:abc1234"}
}

func reconciled(t *testing.T, snapshot Snapshot) []revision.Entry {
	t.Helper()
	traffic, err := revision.Reconcile(snapshot.Traffic(), snapshot.LatestRevisionName, "app--abc1234")
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	return traffic
}

func TestBuildExternalIngress(t *testing.T) {
	snapshot := fixtureSnapshot()

	got, err := Build(snapshot, reconciled(t, snapshot), fixtureParams())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := DesiredState{
		Location:             "westeurope",
		ManagedEnvironmentID: snapshot.ManagedEnvironmentID,
		Ingress: &DesiredIngress{
			External:   true,
			TargetPort: 80,
			Traffic: []TrafficEntry{
				{RevisionName: "app--old1", Weight: 100},
				{RevisionName: "app--abc1234", Weight: 0},
			},
			CustomDomains: snapshot.Ingress.CustomDomains,
		},
		Dapr: snapshot.Dapr,
		Scale: Scale{
			MinReplicas: int32Ptr(0),
			MaxReplicas: int32Ptr(3),
			Rules:       []ScaleRule{{Name: "http-rule", Metadata: map[string]string{"concurrentRequests": "50"}}},
		},
		Containers:     []Container{{Name: "app", Image: "registry.example.com/app:abc1234"}},
		RevisionSuffix: "abc1234",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected desired state (-want +got):\n%s", diff)
	}
}

func TestBuildOmitsInternalIngress(t *testing.T) {
	snapshot := fixtureSnapshot()
	snapshot.Ingress.External = false

	got, err := Build(snapshot, reconciled(t, snapshot), fixtureParams())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got.Ingress != nil {
		t.Fatalf("expected ingress to be omitted, got %+v", got.Ingress)
	}
	payload, err := got.Canonical()
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if bytes.Contains(payload, []byte(`"ingress"`)) {
		t.Fatalf("expected no ingress key in %s", payload)
	}
}

func TestBuildWithoutIngressOrDapr(t *testing.T) {
	snapshot := fixtureSnapshot()
	snapshot.Ingress = nil
	snapshot.Dapr = nil
	snapshot.LatestRevisionName = ""

	got, err := Build(snapshot, reconciled(t, snapshot), fixtureParams())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got.Ingress != nil || got.Dapr != nil {
		t.Fatalf("expected no ingress or dapr, got %+v", got)
	}
	if len(got.Containers) != 1 {
		t.Fatalf("expected one container, got %d", len(got.Containers))
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	snapshot := fixtureSnapshot()
	traffic := reconciled(t, snapshot)

	first, err := Build(snapshot, traffic, fixtureParams())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, err := Build(snapshot, traffic, fixtureParams())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	a, err := first.Canonical()
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	b, err := second.Canonical()
	if err != nil {
		t.Fatalf("canonical: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical payloads:\n%s\n---\n%s", a, b)
	}
}

func TestBuildDoesNotAliasSnapshot(t *testing.T) {
	snapshot := fixtureSnapshot()
	got, err := Build(snapshot, reconciled(t, snapshot), fixtureParams())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	*got.Scale.MaxReplicas = 99
	got.Ingress.CustomDomains[0].Name = "changed"
	if *snapshot.Scale.MaxReplicas != 3 || snapshot.Ingress.CustomDomains[0].Name != "preview.example.com" {
		t.Fatalf("snapshot was mutated through desired state")
	}
}

func TestBuildRejectsUnresolvedTraffic(t *testing.T) {
	snapshot := fixtureSnapshot()
	_, err := Build(snapshot, snapshot.Traffic(), fixtureParams())
	if !errors.Is(err, revision.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}
