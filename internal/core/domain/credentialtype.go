package domain

// Rollup colours for credential-type presence across the fleet.
const (
	RollupGreen  = "Green"  // present on every instance
	RollupOrange = "Orange" // present on more than half
	RollupRed    = "Red"    // present on half or fewer
	RollupNA     = "N/A"    // no instances registered
)

// CredentialType is the upstream tower representation of a credential type.
type CredentialType struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CredentialTypeStatus aggregates where a credential type exists across the
// registered instances.
type CredentialTypeStatus struct {
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	PresentInInstances []string `json:"present_in_instances"`
	MissingInInstances []string `json:"missing_in_instances"`
	Status             string   `json:"status"`
}

// Rollup derives the presence colour from the present/total ratio.
func (s *CredentialTypeStatus) Rollup(total int) {
	if total <= 0 {
		s.Status = RollupNA
		return
	}
	pct := float64(len(s.PresentInInstances)) / float64(total) * 100
	switch {
	case pct == 100:
		s.Status = RollupGreen
	case pct > 50:
		s.Status = RollupOrange
	default:
		s.Status = RollupRed
	}
}

// DuplicationResult reports the outcome of copying a credential type to one
// instance where it was missing.
type DuplicationResult struct {
	Instance string `json:"instance"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}

// VerificationResult reports whether a credential type exists under an
// alternative name on one instance.
type VerificationResult struct {
	Instance  string `json:"instance"`
	Status    string `json:"status"`
	FoundName string `json:"found_name,omitempty"`
}
