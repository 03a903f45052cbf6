// Where: internal/domain/revision/deactivation.go
// What: Safety check for deactivating a revision.
// Why: Never take down a revision that still receives traffic.
package revision

import "fmt"

// WeightFor sums the traffic routed to target. Floating entries count
// toward latest.
func WeightFor(entries []Entry, latest, target string) int64 {
	var total int64
	for _, entry := range entries {
		if entry.Target.Resolve(latest).Name() == target {
			total += int64(entry.Weight)
		}
	}
	return total
}

// CheckDeactivation returns ErrUnsafeDeactivation when target carries traffic.
// A target absent from the list is safe to deactivate.
func CheckDeactivation(entries []Entry, latest, target string) error {
	if weight := WeightFor(entries, latest, target); weight != 0 {
		return fmt.Errorf(
			"%w: revision %s still receives %d%% of traffic; move its traffic to another revision first",
			ErrUnsafeDeactivation,
			target,
			weight,
		)
	}
	return nil
}
