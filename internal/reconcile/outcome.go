package reconcile

// Outcome is the terminal result of one reconciliation pass. Every outcome
// maps to exactly one maintenance-log record and one process exit code.
type Outcome int

const (
	// OutcomeAlreadyOptimal: listener exists and is bound to the best
	// eligible certificate; nothing mutated.
	OutcomeAlreadyOptimal Outcome = iota

	// OutcomeUpgraded: listener existed with a different certificate and
	// was recreated bound to the winner.
	OutcomeUpgraded

	// OutcomeCreated: no listener existed; one was created.
	OutcomeCreated

	// OutcomeNoReplacement: listener exists but no eligible certificate is
	// available to validate or replace its binding.
	OutcomeNoReplacement

	// OutcomeNoCertificate: no listener exists and no eligible certificate
	// exists, so the host cannot be bootstrapped.
	OutcomeNoCertificate

	// OutcomeCertificateExpired: the selected certificate is already
	// expired and cannot be bound to a new listener.
	OutcomeCertificateExpired

	// OutcomeProvisioningFailed: a platform call failed; the run stopped
	// without rollback.
	OutcomeProvisioningFailed
)

// ExitCode returns the process exit code for the outcome.
//
// The no-eligible-certificate coding is deliberately asymmetric: with an
// existing listener it is an existing-config invalidation (1), without one
// it is a distinct cannot-bootstrap condition (3). Callers depend on the
// distinction; do not normalize it.
func (o Outcome) ExitCode() int {
	switch o {
	case OutcomeAlreadyOptimal, OutcomeUpgraded, OutcomeCreated:
		return 0
	case OutcomeNoReplacement, OutcomeCertificateExpired:
		return 1
	case OutcomeNoCertificate:
		return 3
	case OutcomeProvisioningFailed:
		return 4
	default:
		return 4
	}
}

// Success reports whether the outcome is one of the converged states.
func (o Outcome) Success() bool {
	return o.ExitCode() == 0
}

// String returns a stable name for logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeAlreadyOptimal:
		return "already_optimal"
	case OutcomeUpgraded:
		return "upgraded"
	case OutcomeCreated:
		return "created"
	case OutcomeNoReplacement:
		return "no_replacement_certificate"
	case OutcomeNoCertificate:
		return "no_eligible_certificate"
	case OutcomeCertificateExpired:
		return "certificate_expired"
	case OutcomeProvisioningFailed:
		return "provisioning_failed"
	default:
		return "unknown"
	}
}
