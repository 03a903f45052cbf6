// Where: internal/domain/template/suffix.go
// What: Revision suffix rendering.
// Why: Derive suffixes from CI metadata without shell string munging.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// DefaultSuffixTemplate yields the short commit SHA.
const DefaultSuffixTemplate = `{{ .CommitSHA | trunc 7 | lower }}`

// SuffixData is the data passed to a suffix template.
type SuffixData struct {
	CommitSHA   string
	PullRequest string
	AppName     string
}

var templateCache sync.Map

// RenderSuffix executes text against data and trims surrounding whitespace.
// Missing keys are errors.
func RenderSuffix(text string, data SuffixData) (string, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultSuffixTemplate
	}
	tmpl, err := loadTemplate(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render suffix template: %w", err)
	}
	suffix := strings.TrimSpace(buf.String())
	if suffix == "" {
		return "", fmt.Errorf("suffix template %q rendered an empty suffix", text)
	}
	return suffix, nil
}

func loadTemplate(text string) (*template.Template, error) {
	if value, ok := templateCache.Load(text); ok {
		cached, ok := value.(*template.Template)
		if !ok {
			return nil, fmt.Errorf("template cache type mismatch for %q", text)
		}
		return cached, nil
	}
	tmpl, err := template.New("suffix").
		Option("missingkey=error").
		Funcs(sprig.TxtFuncMap()).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse suffix template: %w", err)
	}
	templateCache.Store(text, tmpl)
	return tmpl, nil
}
