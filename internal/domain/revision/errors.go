// Where: internal/domain/revision/errors.go
// What: Error taxonomy for revision publishing and deactivation.
// Why: Let callers classify failures with errors.Is while messages carry context.
package revision

import "errors"

var (
	// ErrInvalidConfiguration marks a precondition failure detected before
	// any control-plane mutation.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrDeploymentFailed marks a submitted update whose revision could not
	// be observed afterwards.
	ErrDeploymentFailed = errors.New("deployment failed")
	// ErrUnsafeDeactivation marks a deactivation refused because the
	// revision still receives traffic.
	ErrUnsafeDeactivation = errors.New("unsafe deactivation")
	// ErrDeactivationNotConfirmed marks a deactivation request whose effect
	// was not visible on re-read.
	ErrDeactivationNotConfirmed = errors.New("deactivation not confirmed")
	// ErrNotFound is returned by control-plane adapters for missing resources.
	ErrNotFound = errors.New("not found")
)
