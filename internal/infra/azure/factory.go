// Where: internal/infra/azure/factory.go
// What: Container Apps client construction.
// Why: Make retry, poll and telemetry settings explicit instead of SDK defaults.
package azure

import (
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appcontainers/armappcontainers/v2"
)

// Request budget applied when neither flags nor the config file set one.
const (
	// DefaultPollFrequency is the interval between long-running operation polls.
	DefaultPollFrequency = 5 * time.Second
	// DefaultMaxRetries is the number of transport retries per request.
	DefaultMaxRetries = 3
	// DefaultRetryDelay is the initial delay between transport retries.
	DefaultRetryDelay = 2 * time.Second
)

var errSubscriptionRequired = errors.New("subscription id is required")

// ClientSettings is the request budget applied to every control-plane call.
type ClientSettings struct {
	PollFrequency time.Duration
	// MaxRetries is the number of transport retries; zero disables retries.
	MaxRetries    int
	RetryDelay    time.Duration
	ApplicationID string
}

func (s ClientSettings) clientOptions() *arm.ClientOptions {
	maxRetries := int32(s.MaxRetries)
	if maxRetries <= 0 {
		// The SDK treats zero as "use the default"; -1 disables retries.
		maxRetries = -1
	}
	return &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Retry: policy.RetryOptions{
				MaxRetries: maxRetries,
				RetryDelay: s.RetryDelay,
			},
			Telemetry: policy.TelemetryOptions{
				ApplicationID: s.ApplicationID,
			},
		},
	}
}

func (s ClientSettings) pollFrequency() time.Duration {
	if s.PollFrequency <= 0 {
		return DefaultPollFrequency
	}
	return s.PollFrequency
}

// NewControlPlane builds a ControlPlane for subscriptionID.
func NewControlPlane(subscriptionID string, credential azcore.TokenCredential, settings ClientSettings) (*ControlPlane, error) {
	if subscriptionID == "" {
		return nil, errSubscriptionRequired
	}
	factory, err := armappcontainers.NewClientFactory(subscriptionID, credential, settings.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("create container apps client: %w", err)
	}
	return &ControlPlane{
		apps:          factory.NewContainerAppsClient(),
		revisions:     factory.NewContainerAppsRevisionsClient(),
		pollFrequency: settings.pollFrequency(),
	}, nil
}
