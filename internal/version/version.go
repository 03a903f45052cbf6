// Where: internal/version/version.go
// What: Version information retrieval.
// Why: Report a release tag when stamped, otherwise the VCS revision from build info.
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Version is stamped at release time:
// -ldflags "-X github.com/poruru/aca-preview/internal/version.Version=v1.2.3".
var Version = ""

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the stamped version, else the short VCS revision
// (suffixed with "(dirty)" for modified trees), else "dev".
func GetVersion() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}
	info, ok := readBuildInfo()
	if !ok {
		return "dev"
	}
	return fromSettings(info.Settings)
}

func fromSettings(settings []debug.BuildSetting) string {
	var revision string
	var modified bool

	for _, setting := range settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if modified {
		return fmt.Sprintf("%s (dirty)", revision)
	}
	return revision
}
