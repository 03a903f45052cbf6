// Where: internal/domain/envelope/snapshot.go
// What: Provider-neutral view of a live container app.
// Why: Keep envelope building pure and free of SDK types.
package envelope

import "github.com/poruru/aca-preview/internal/domain/revision"

// Snapshot is the subset of a live container app the builder reads.
type Snapshot struct {
	Location             string
	ManagedEnvironmentID string
	LatestRevisionName   string
	Ingress              *Ingress
	Dapr                 *Dapr
	Scale                Scale
}

// Traffic returns the live traffic split, empty when the app has no ingress.
func (s Snapshot) Traffic() []revision.Entry {
	if s.Ingress == nil {
		return nil
	}
	return s.Ingress.Traffic
}

// Ingress describes the live ingress configuration.
type Ingress struct {
	External      bool
	TargetPort    int32
	Traffic       []revision.Entry
	CustomDomains []CustomDomain
}

// CustomDomain is a host name bound to the app's ingress.
type CustomDomain struct {
	Name          string `json:"name"`
	BindingType   string `json:"bindingType,omitempty"`
	CertificateID string `json:"certificateId,omitempty"`
}

// Dapr mirrors the app's Dapr sidecar settings; copied without interpretation.
type Dapr struct {
	Enabled            *bool  `json:"enabled,omitempty"`
	AppID              string `json:"appId,omitempty"`
	AppPort            *int32 `json:"appPort,omitempty"`
	AppProtocol        string `json:"appProtocol,omitempty"`
	EnableAPILogging   *bool  `json:"enableApiLogging,omitempty"`
	HTTPMaxRequestSize *int32 `json:"httpMaxRequestSize,omitempty"`
	HTTPReadBufferSize *int32 `json:"httpReadBufferSize,omitempty"`
	LogLevel           string `json:"logLevel,omitempty"`
}

// Scale holds replica bounds and scaling rules.
type Scale struct {
	MinReplicas *int32      `json:"minReplicas,omitempty"`
	MaxReplicas *int32      `json:"maxReplicas,omitempty"`
	Rules       []ScaleRule `json:"rules"`
}

// ScaleRule is an HTTP concurrency scaling rule.
type ScaleRule struct {
	Name     string            `json:"name"`
	Metadata map[string]string `json:"metadata"`
}
