// Where: internal/command/resolve.go
// What: Merge flags, env and config file into run settings.
// Why: Apply one precedence rule (flag/env > file > default) for every input.
package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/poruru/aca-preview/internal/domain/revision"
	"github.com/poruru/aca-preview/internal/domain/template"
	"github.com/poruru/aca-preview/internal/infra/awsstore"
	"github.com/poruru/aca-preview/internal/infra/azure"
	"github.com/poruru/aca-preview/internal/infra/config"
	"github.com/poruru/aca-preview/internal/infra/registry"
	"github.com/poruru/aca-preview/internal/usecase/preview"
)

// DefaultTimeout bounds a whole invocation.
const DefaultTimeout = 10 * time.Minute

// unsetRetries marks --max-retries as not given.
const unsetRetries = -1

// runSettings is everything one invocation needs after resolution.
type runSettings struct {
	Params       preview.TaskParameters
	Timeout      time.Duration
	Client       azure.ClientSettings
	VerifyImage  bool
	Registry     registry.Credentials
	LedgerTable  string
	ReportBucket string
	ReportPrefix string
	AWS          awsstore.Settings
}

func resolveSettings(flags PreviewFlags, file config.File) (runSettings, error) {
	params := preview.TaskParameters{
		ResourceGroup:  firstNonEmpty(flags.ResourceGroup, file.ResourceGroup),
		AppName:        firstNonEmpty(flags.App, file.App),
		Image:          strings.TrimSpace(flags.Image),
		SubscriptionID: firstNonEmpty(flags.SubscriptionID, file.SubscriptionID),
		Deactivate:     flags.Deactivate,
		PullRequest:    strings.TrimSpace(flags.PullRequest),
		CommitSHA:      strings.TrimSpace(flags.CommitSHA),
	}
	if params.AppName == "" {
		return runSettings{}, fmt.Errorf("%w: app name is required", revision.ErrInvalidConfiguration)
	}
	if params.SubscriptionID == "" {
		return runSettings{}, fmt.Errorf("%w: subscription id is required", revision.ErrInvalidConfiguration)
	}

	suffix, err := resolveSuffix(flags, file, params)
	if err != nil {
		return runSettings{}, err
	}
	params.RevisionSuffix = suffix

	maxRetries := azure.DefaultMaxRetries
	switch {
	case flags.MaxRetries != unsetRetries:
		maxRetries = flags.MaxRetries
	case file.Client.MaxRetries != nil:
		maxRetries = *file.Client.MaxRetries
	}
	if maxRetries < 0 {
		return runSettings{}, fmt.Errorf("%w: max retries must not be negative", revision.ErrInvalidConfiguration)
	}

	settings := runSettings{
		Params:  params,
		Timeout: firstPositive(flags.Timeout, file.Client.Timeout.Std(), DefaultTimeout),
		Client: azure.ClientSettings{
			PollFrequency: firstPositive(flags.PollFrequency, file.Client.PollFrequency.Std(), azure.DefaultPollFrequency),
			MaxRetries:    maxRetries,
			RetryDelay:    firstPositive(flags.RetryDelay, file.Client.RetryDelay.Std(), azure.DefaultRetryDelay),
		},
		VerifyImage: flags.VerifyImage || file.Registry.Verify,
		Registry: registry.Credentials{
			Username: firstNonEmpty(flags.RegistryUsername, file.Registry.Username),
			Password: flags.RegistryPassword,
		},
		LedgerTable:  firstNonEmpty(flags.LedgerTable, file.Ledger.Table),
		ReportBucket: firstNonEmpty(flags.ReportBucket, file.Report.Bucket),
		ReportPrefix: firstNonEmpty(flags.ReportPrefix, file.Report.Prefix),
		AWS: awsstore.Settings{
			Region:   firstNonEmpty(flags.AWSRegion, file.AWS.Region),
			Endpoint: firstNonEmpty(flags.AWSEndpoint, file.AWS.Endpoint),
		},
	}
	return settings, nil
}

// resolveSuffix prefers an explicit suffix and otherwise renders the template.
func resolveSuffix(flags PreviewFlags, file config.File, params preview.TaskParameters) (string, error) {
	if suffix := strings.TrimSpace(flags.RevisionSuffix); suffix != "" {
		return suffix, nil
	}
	text := firstNonEmpty(flags.SuffixTemplate, file.SuffixTemplate, template.DefaultSuffixTemplate)
	suffix, err := template.RenderSuffix(text, template.SuffixData{
		CommitSHA:   params.CommitSHA,
		PullRequest: params.PullRequest,
		AppName:     params.AppName,
	})
	if err != nil {
		return "", fmt.Errorf("%w: revision suffix: %w", revision.ErrInvalidConfiguration, err)
	}
	return suffix, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func firstPositive(values ...time.Duration) time.Duration {
	for _, value := range values {
		if value > 0 {
			return value
		}
	}
	return 0
}
