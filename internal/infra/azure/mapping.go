// Where: internal/infra/azure/mapping.go
// What: Conversions between armappcontainers models and domain types.
package azure

import (
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appcontainers/armappcontainers/v2"
	"github.com/poruru/aca-preview/internal/domain/envelope"
	"github.com/poruru/aca-preview/internal/domain/revision"
)

func snapshotFromApp(app armappcontainers.ContainerApp) envelope.Snapshot {
	snapshot := envelope.Snapshot{
		Location: deref(app.Location),
	}
	props := app.Properties
	if props == nil {
		return snapshot
	}

	snapshot.ManagedEnvironmentID = deref(props.ManagedEnvironmentID)
	snapshot.LatestRevisionName = deref(props.LatestRevisionName)

	if cfg := props.Configuration; cfg != nil {
		snapshot.Ingress = ingressFromSDK(cfg.Ingress)
		snapshot.Dapr = daprFromSDK(cfg.Dapr)
	}
	if tpl := props.Template; tpl != nil && tpl.Scale != nil {
		snapshot.Scale = envelope.Scale{
			MinReplicas: tpl.Scale.MinReplicas,
			MaxReplicas: tpl.Scale.MaxReplicas,
		}
		for _, rule := range tpl.Scale.Rules {
			if rule == nil || rule.HTTP == nil {
				continue
			}
			snapshot.Scale.Rules = append(snapshot.Scale.Rules, envelope.ScaleRule{
				Name:     deref(rule.Name),
				Metadata: derefMap(rule.HTTP.Metadata),
			})
		}
	}
	return snapshot
}

func ingressFromSDK(in *armappcontainers.Ingress) *envelope.Ingress {
	if in == nil {
		return nil
	}
	out := &envelope.Ingress{
		External:   deref(in.External),
		TargetPort: deref(in.TargetPort),
		Traffic:    trafficFromSDK(in.Traffic),
	}
	for _, domain := range in.CustomDomains {
		if domain == nil {
			continue
		}
		out.CustomDomains = append(out.CustomDomains, envelope.CustomDomain{
			Name:          deref(domain.Name),
			BindingType:   string(deref(domain.BindingType)),
			CertificateID: deref(domain.CertificateID),
		})
	}
	return out
}

func trafficFromSDK(weights []*armappcontainers.TrafficWeight) []revision.Entry {
	out := make([]revision.Entry, 0, len(weights))
	for _, weight := range weights {
		if weight == nil {
			continue
		}
		target := revision.Fixed(deref(weight.RevisionName))
		if deref(weight.LatestRevision) {
			target = revision.FloatingLatest()
		}
		out = append(out, revision.Entry{
			Target: target,
			Weight: deref(weight.Weight),
			Label:  deref(weight.Label),
		})
	}
	return out
}

func daprFromSDK(in *armappcontainers.Dapr) *envelope.Dapr {
	if in == nil {
		return nil
	}
	return &envelope.Dapr{
		Enabled:            in.Enabled,
		AppID:              deref(in.AppID),
		AppPort:            in.AppPort,
		AppProtocol:        string(deref(in.AppProtocol)),
		EnableAPILogging:   in.EnableAPILogging,
		HTTPMaxRequestSize: in.HTTPMaxRequestSize,
		HTTPReadBufferSize: in.HTTPReadBufferSize,
		LogLevel:           string(deref(in.LogLevel)),
	}
}

func revisionFromSDK(in armappcontainers.Revision) revision.Revision {
	out := revision.Revision{Name: deref(in.Name)}
	if in.Properties != nil {
		out.Active = deref(in.Properties.Active)
		out.FQDN = deref(in.Properties.Fqdn)
	}
	return out
}

func appFromDesired(desired envelope.DesiredState) armappcontainers.ContainerApp {
	containers := make([]*armappcontainers.Container, 0, len(desired.Containers))
	for _, c := range desired.Containers {
		containers = append(containers, &armappcontainers.Container{
			Name:  to.Ptr(c.Name),
			Image: to.Ptr(c.Image),
		})
	}

	rules := make([]*armappcontainers.ScaleRule, 0, len(desired.Scale.Rules))
	for _, rule := range desired.Scale.Rules {
		rules = append(rules, &armappcontainers.ScaleRule{
			Name: to.Ptr(rule.Name),
			HTTP: &armappcontainers.HTTPScaleRule{Metadata: ptrMap(rule.Metadata)},
		})
	}

	return armappcontainers.ContainerApp{
		Location: optional(desired.Location),
		Properties: &armappcontainers.ContainerAppProperties{
			ManagedEnvironmentID: optional(desired.ManagedEnvironmentID),
			Configuration: &armappcontainers.Configuration{
				Ingress: ingressToSDK(desired.Ingress),
				Dapr:    daprToSDK(desired.Dapr),
			},
			Template: &armappcontainers.Template{
				Containers:     containers,
				RevisionSuffix: to.Ptr(desired.RevisionSuffix),
				Scale: &armappcontainers.Scale{
					MinReplicas: desired.Scale.MinReplicas,
					MaxReplicas: desired.Scale.MaxReplicas,
					Rules:       rules,
				},
			},
		},
	}
}

func ingressToSDK(in *envelope.DesiredIngress) *armappcontainers.Ingress {
	if in == nil {
		return nil
	}
	traffic := make([]*armappcontainers.TrafficWeight, 0, len(in.Traffic))
	for _, entry := range in.Traffic {
		traffic = append(traffic, &armappcontainers.TrafficWeight{
			RevisionName:   to.Ptr(entry.RevisionName),
			LatestRevision: to.Ptr(entry.LatestRevision),
			Weight:         to.Ptr(entry.Weight),
			Label:          optional(entry.Label),
		})
	}
	out := &armappcontainers.Ingress{
		External:   to.Ptr(in.External),
		TargetPort: to.Ptr(in.TargetPort),
		Traffic:    traffic,
	}
	for _, domain := range in.CustomDomains {
		d := &armappcontainers.CustomDomain{
			Name:          to.Ptr(domain.Name),
			CertificateID: optional(domain.CertificateID),
		}
		if domain.BindingType != "" {
			d.BindingType = to.Ptr(armappcontainers.BindingType(domain.BindingType))
		}
		out.CustomDomains = append(out.CustomDomains, d)
	}
	return out
}

func daprToSDK(in *envelope.Dapr) *armappcontainers.Dapr {
	if in == nil {
		return nil
	}
	out := &armappcontainers.Dapr{
		Enabled:            in.Enabled,
		AppID:              optional(in.AppID),
		AppPort:            in.AppPort,
		EnableAPILogging:   in.EnableAPILogging,
		HTTPMaxRequestSize: in.HTTPMaxRequestSize,
		HTTPReadBufferSize: in.HTTPReadBufferSize,
	}
	if in.AppProtocol != "" {
		out.AppProtocol = to.Ptr(armappcontainers.AppProtocol(in.AppProtocol))
	}
	if in.LogLevel != "" {
		out.LogLevel = to.Ptr(armappcontainers.LogLevel(in.LogLevel))
	}
	return out
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return to.Ptr(s)
}

func derefMap(in map[string]*string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = deref(v)
	}
	return out
}

func ptrMap(in map[string]string) map[string]*string {
	out := make(map[string]*string, len(in))
	for k, v := range in {
		out[k] = to.Ptr(v)
	}
	return out
}
