// Where: internal/meta/meta.go
// What: CLI metadata constants.
// Why: Keep the binary name, env prefix and file names in one place.
package meta

const (
	// Project Identity
	AppName   = "aca-preview"
	EnvPrefix = "ACA_PREVIEW"

	// MarkerValue is the user-agent marker exported while a run is in progress.
	MarkerValue = "aca-preview"
)

// ConfigFileNames are searched upward from the working directory, in order.
var ConfigFileNames = []string{".aca-preview.yaml", ".aca-preview.yml"}
