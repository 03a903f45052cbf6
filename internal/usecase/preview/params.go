// Where: internal/usecase/preview/params.go
// What: Per-invocation task parameters.
package preview

// OutputAppURL is the output name carrying the preview endpoint.
const OutputAppURL = "app-url"

// TaskParameters are the immutable inputs of one invocation.
type TaskParameters struct {
	ResourceGroup  string
	AppName        string
	RevisionSuffix string
	Image          string
	SubscriptionID string
	Deactivate     bool

	PullRequest string
	CommitSHA   string
}

// Mode returns the mode label used in logs and reports.
func (p TaskParameters) Mode() string {
	if p.Deactivate {
		return "deactivate"
	}
	return "publish"
}
