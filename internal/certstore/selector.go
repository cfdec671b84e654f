package certstore

import (
	"sort"
	"strings"
	"time"
)

// Selector picks the best listener certificate for a given host identity.
// It is a pure function over the certificate snapshot passed in; the host
// name is threaded in explicitly so the selection is testable with
// synthetic identities.
type Selector struct {
	computerName string
}

// NewSelector creates a Selector for the given short computer name.
func NewSelector(computerName string) *Selector {
	return &Selector{computerName: computerName}
}

// SelectBest returns the eligible certificate with the longest remaining
// validity, or nil when no certificate is eligible.
//
// Eligibility requires all of:
//   - Server Authentication EKU (exact OID match)
//   - subject contains the short computer name (case-insensitive)
//   - issuer does NOT contain the short computer name, which excludes
//     self-issued certificates (a heuristic, not a true self-signed check)
//
// Expiry is not part of eligibility; callers gate the winner with IsExpired
// where the flow requires it.
func (s *Selector) SelectBest(certs []Certificate) *Certificate {
	eligible := make([]Certificate, 0, len(certs))
	for _, c := range certs {
		if s.Eligible(c) {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	// Longest validity first. Equal NotAfter falls back to ascending
	// thumbprint so two runs over the same store agree.
	sort.Slice(eligible, func(i, j int) bool {
		if !eligible[i].NotAfter.Equal(eligible[j].NotAfter) {
			return eligible[i].NotAfter.After(eligible[j].NotAfter)
		}
		return eligible[i].Thumbprint < eligible[j].Thumbprint
	})

	best := eligible[0]
	return &best
}

// Eligible reports whether a single certificate passes the EKU, subject and
// issuer filters for this host.
func (s *Selector) Eligible(c Certificate) bool {
	if !c.HasServerAuthEKU() {
		return false
	}
	name := strings.ToLower(s.computerName)
	if name == "" {
		return false
	}
	if !strings.Contains(strings.ToLower(c.Subject), name) {
		return false
	}
	if strings.Contains(strings.ToLower(c.Issuer), name) {
		return false
	}
	return true
}

// IsExpired reports whether the certificate has already expired at now.
// A certificate can pass the eligibility filters and still be expired.
func IsExpired(c Certificate, now time.Time) bool {
	return !c.NotAfter.After(now)
}
