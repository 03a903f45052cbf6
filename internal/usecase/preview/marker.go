// Where: internal/usecase/preview/marker.go
// What: Process-wide run marker scoped to a single invocation.
// Why: Tag child tooling with the run identity and always restore it.
package preview

import (
	"fmt"
	"os"
)

// MarkerEnv is the environment variable used as the run marker.
const MarkerEnv = "AZURE_HTTP_USER_AGENT"

// setMarker sets MarkerEnv and returns a func restoring the previous value.
func setMarker(value string) (func(), error) {
	previous, had := os.LookupEnv(MarkerEnv)
	if err := os.Setenv(MarkerEnv, value); err != nil {
		return func() {}, fmt.Errorf("set env %s: %w", MarkerEnv, err)
	}
	return func() {
		if had {
			_ = os.Setenv(MarkerEnv, previous)
			return
		}
		_ = os.Unsetenv(MarkerEnv)
	}, nil
}
