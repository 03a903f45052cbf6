// Where: internal/domain/revision/naming.go
// What: Deterministic revision naming.
// Why: Reject names the platform would refuse before anything is submitted.
package revision

import (
	"fmt"
	"strings"
)

const (
	// Separator joins the app name and the revision suffix.
	Separator = "--"
	// MaxNameLength is the platform limit for revision names.
	MaxNameLength = 63
)

// ComposeName returns "<app>--<suffix>" or an ErrInvalidConfiguration error.
func ComposeName(app, suffix string) (string, error) {
	app = strings.TrimSpace(app)
	suffix = strings.TrimSpace(suffix)
	if app == "" {
		return "", fmt.Errorf("%w: container app name is required", ErrInvalidConfiguration)
	}
	if err := ValidateSuffix(suffix); err != nil {
		return "", err
	}
	name := app + Separator + suffix
	if len(name) > MaxNameLength {
		return "", fmt.Errorf(
			"%w: revision name %q is %d characters, limit is %d",
			ErrInvalidConfiguration,
			name,
			len(name),
			MaxNameLength,
		)
	}
	return name, nil
}

// ValidateSuffix checks the characters of a revision suffix.
func ValidateSuffix(suffix string) error {
	if suffix == "" {
		return fmt.Errorf("%w: revision suffix is required", ErrInvalidConfiguration)
	}
	for _, r := range suffix {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return fmt.Errorf("%w: revision suffix %q may only contain lowercase letters, digits and '-'", ErrInvalidConfiguration, suffix)
		}
	}
	if strings.HasPrefix(suffix, "-") || strings.HasSuffix(suffix, "-") || strings.Contains(suffix, Separator) {
		return fmt.Errorf("%w: revision suffix %q has misplaced '-'", ErrInvalidConfiguration, suffix)
	}
	return nil
}
