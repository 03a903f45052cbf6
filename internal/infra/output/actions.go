// Where: internal/infra/output/actions.go
// What: GitHub Actions output and annotation sink.
// Why: Hand the preview URL to later workflow steps and surface failures inline.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sethvargo/go-githubactions"
)

// OutputFileEnv names the file GitHub Actions reads step outputs from.
const OutputFileEnv = "GITHUB_OUTPUT"

// ActionsSink writes step outputs and error annotations through the actions
// toolkit.
type ActionsSink struct {
	mu         sync.Mutex
	outputFile string
	action     *githubactions.Action
}

// NewActionsSink returns a sink appending to outputFile. When outputFile is
// empty, outputs are printed to out as notices instead.
func NewActionsSink(outputFile string, out io.Writer) *ActionsSink {
	if out == nil {
		out = os.Stdout
	}
	outputFile = strings.TrimSpace(outputFile)
	getenv := func(key string) string {
		if key == OutputFileEnv {
			return outputFile
		}
		return os.Getenv(key)
	}
	return &ActionsSink{
		outputFile: outputFile,
		action: githubactions.New(
			githubactions.WithWriter(out),
			githubactions.WithGetenv(getenv),
		),
	}
}

// FromEnv builds a sink from $GITHUB_OUTPUT.
func FromEnv(out io.Writer) *ActionsSink {
	return NewActionsSink(os.Getenv(OutputFileEnv), out)
}

// SetOutput records name=value.
func (s *ActionsSink) SetOutput(name, value string) (err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("output name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outputFile == "" {
		s.action.Noticef("%s=%s", name, value)
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("write output %s: %v", name, r)
		}
	}()
	s.action.SetOutput(name, value)
	return nil
}

// Fail emits an error annotation.
func (s *ActionsSink) Fail(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.action.Errorf("%s", msg)
}
