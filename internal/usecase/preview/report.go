// Where: internal/usecase/preview/report.go
// What: JSON run report.
package preview

import (
	"encoding/json"
	"time"

	"github.com/poruru/aca-preview/internal/domain/envelope"
)

type report struct {
	Mode        string                 `json:"mode"`
	State       string                 `json:"state"`
	App         string                 `json:"app"`
	Group       string                 `json:"resourceGroup"`
	Revision    string                 `json:"revision"`
	URL         string                 `json:"url,omitempty"`
	Image       string                 `json:"image,omitempty"`
	PullRequest string                 `json:"pullRequest,omitempty"`
	CommitSHA   string                 `json:"commitSha,omitempty"`
	Desired     *envelope.DesiredState `json:"desired,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

func newReport(params TaskParameters, result Result, state string, now time.Time) report {
	return report{
		Mode:        result.Mode,
		State:       state,
		App:         params.AppName,
		Group:       params.ResourceGroup,
		Revision:    result.Revision,
		URL:         result.URL,
		Image:       params.Image,
		PullRequest: params.PullRequest,
		CommitSHA:   params.CommitSHA,
		Desired:     result.Desired,
		Timestamp:   now,
	}
}

func (r report) encode() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
