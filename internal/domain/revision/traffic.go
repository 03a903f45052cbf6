// Where: internal/domain/revision/traffic.go
// What: Traffic-split model and reconciliation.
// Why: Produce the next traffic list without redirecting live traffic.
package revision

import "fmt"

// Target identifies where a traffic entry routes: a fixed revision or
// whichever revision is currently latest.
type Target struct {
	name   string
	latest bool
}

// Fixed targets a named revision.
func Fixed(name string) Target {
	return Target{name: name}
}

// FloatingLatest targets whatever revision is latest at routing time.
func FloatingLatest() Target {
	return Target{latest: true}
}

// IsLatest reports whether the target floats with the latest revision.
func (t Target) IsLatest() bool {
	return t.latest
}

// Name returns the fixed revision name; empty for a floating target.
func (t Target) Name() string {
	if t.latest {
		return ""
	}
	return t.name
}

// Resolve pins a floating target to latest. Fixed targets are unchanged.
func (t Target) Resolve(latest string) Target {
	if !t.latest {
		return t
	}
	return Fixed(latest)
}

func (t Target) String() string {
	if t.latest {
		return "<latest>"
	}
	return t.name
}

// Entry is one element of an ingress traffic split.
type Entry struct {
	Target Target
	Weight int32
	Label  string
}

// TotalWeight sums the weights of entries.
func TotalWeight(entries []Entry) int64 {
	var total int64
	for _, entry := range entries {
		total += int64(entry.Weight)
	}
	return total
}

// Reconcile builds the traffic list that introduces newRevision at zero
// weight. Zero-weight entries are dropped and floating entries are pinned to
// latest so existing traffic keeps its destination. Entries resolving to the
// same revision merge into the first one; the first non-empty label wins.
func Reconcile(current []Entry, latest, newRevision string) ([]Entry, error) {
	if newRevision == "" {
		return nil, fmt.Errorf("%w: new revision name is required", ErrInvalidConfiguration)
	}

	out := make([]Entry, 0, len(current)+1)
	index := map[string]int{}
	for _, entry := range current {
		if entry.Weight <= 0 {
			continue
		}
		if entry.Target.IsLatest() {
			if latest == "" {
				return nil, fmt.Errorf(
					"%w: traffic routes %d%% to the latest revision but the app reports no latest revision",
					ErrInvalidConfiguration,
					entry.Weight,
				)
			}
			entry.Target = entry.Target.Resolve(latest)
		}
		name := entry.Target.Name()
		if at, ok := index[name]; ok {
			out[at].Weight += entry.Weight
			if out[at].Label == "" {
				out[at].Label = entry.Label
			}
			continue
		}
		index[name] = len(out)
		out = append(out, entry)
	}

	for _, entry := range out {
		if entry.Target.Name() == newRevision {
			return out, nil
		}
	}
	return append(out, Entry{Target: Fixed(newRevision), Weight: 0}), nil
}
