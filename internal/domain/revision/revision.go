// Where: internal/domain/revision/revision.go
// What: Observed revision state.
package revision

// Revision is a read-only observation of a revision on the control plane.
type Revision struct {
	Name   string
	Active bool
	FQDN   string
}

// URL returns the public https endpoint, or "" without an FQDN.
func (r Revision) URL() string {
	if r.FQDN == "" {
		return ""
	}
	return "https://" + r.FQDN + "/"
}
