// Where: internal/infra/azure/control_plane.go
// What: Container Apps implementation of the preview control plane.
// Why: Map workflow calls onto armappcontainers and classify missing resources.
package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appcontainers/armappcontainers/v2"
	"github.com/poruru/aca-preview/internal/domain/envelope"
	"github.com/poruru/aca-preview/internal/domain/revision"
)

type appsAPI interface {
	Get(
		ctx context.Context,
		resourceGroupName string,
		containerAppName string,
		options *armappcontainers.ContainerAppsClientGetOptions,
	) (armappcontainers.ContainerAppsClientGetResponse, error)
	BeginUpdate(
		ctx context.Context,
		resourceGroupName string,
		containerAppName string,
		containerAppEnvelope armappcontainers.ContainerApp,
		options *armappcontainers.ContainerAppsClientBeginUpdateOptions,
	) (*runtime.Poller[armappcontainers.ContainerAppsClientUpdateResponse], error)
}

type revisionsAPI interface {
	GetRevision(
		ctx context.Context,
		resourceGroupName string,
		containerAppName string,
		revisionName string,
		options *armappcontainers.ContainerAppsRevisionsClientGetRevisionOptions,
	) (armappcontainers.ContainerAppsRevisionsClientGetRevisionResponse, error)
	DeactivateRevision(
		ctx context.Context,
		resourceGroupName string,
		containerAppName string,
		revisionName string,
		options *armappcontainers.ContainerAppsRevisionsClientDeactivateRevisionOptions,
	) (armappcontainers.ContainerAppsRevisionsClientDeactivateRevisionResponse, error)
}

// ControlPlane talks to the Azure Container Apps management API.
type ControlPlane struct {
	apps          appsAPI
	revisions     revisionsAPI
	pollFrequency time.Duration
}

// GetApp reads the live container app.
func (c *ControlPlane) GetApp(ctx context.Context, resourceGroup, name string) (envelope.Snapshot, error) {
	resp, err := c.apps.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return envelope.Snapshot{}, classify(err)
	}
	return snapshotFromApp(resp.ContainerApp), nil
}

// UpdateAppAndWait submits desired and blocks until the operation completes.
func (c *ControlPlane) UpdateAppAndWait(ctx context.Context, resourceGroup, name string, desired envelope.DesiredState) error {
	poller, err := c.apps.BeginUpdate(ctx, resourceGroup, name, appFromDesired(desired), nil)
	if err != nil {
		return classify(err)
	}
	if poller == nil {
		return fmt.Errorf("update %s returned no operation to wait on", name)
	}
	if _, err := poller.PollUntilDone(ctx, &runtime.PollUntilDoneOptions{Frequency: c.pollFrequency}); err != nil {
		return fmt.Errorf("wait for update: %w", classify(err))
	}
	return nil
}

// GetRevision reads one revision; missing revisions wrap revision.ErrNotFound.
func (c *ControlPlane) GetRevision(ctx context.Context, resourceGroup, appName, revisionName string) (revision.Revision, error) {
	resp, err := c.revisions.GetRevision(ctx, resourceGroup, appName, revisionName, nil)
	if err != nil {
		return revision.Revision{}, classify(err)
	}
	return revisionFromSDK(resp.Revision), nil
}

// DeactivateRevision requests deactivation of a revision.
func (c *ControlPlane) DeactivateRevision(ctx context.Context, resourceGroup, appName, revisionName string) error {
	if _, err := c.revisions.DeactivateRevision(ctx, resourceGroup, appName, revisionName, nil); err != nil {
		return classify(err)
	}
	return nil
}

func classify(err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", revision.ErrNotFound, err)
	}
	return err
}
