// Package platform abstracts the Windows surface this tool touches: the
// LocalMachine personal certificate store, the WinRM HTTPS listener, and
// the host's network identity. The reconciler only ever talks to the
// Provider interface, which keeps the decision logic testable off-Windows.
package platform

import (
	"context"
	"time"

	"github.com/certbind-io/winrm-certbind/internal/certstore"
)

// Listener describes the WinRM HTTPS listener on the wildcard address.
type Listener struct {
	Address    string
	Transport  string
	Hostname   string
	Thumbprint string
	Port       int
	Enabled    bool
}

// Identity is the host identity used for certificate filtering and for the
// hostname written into a new listener.
type Identity struct {
	ComputerName string // short NetBIOS-style name, used in subject/issuer matching
	FQDN         string // fully-qualified name the listener advertises
}

// Provider is the platform surface the reconciler drives. Calls are
// blocking and synchronous; there is no retry layer underneath.
type Provider interface {
	// Certificates enumerates the LocalMachine personal store.
	Certificates(ctx context.Context) ([]certstore.Certificate, error)

	// HTTPSListener returns the wildcard HTTPS listener, or nil when no
	// such listener is configured.
	HTTPSListener(ctx context.Context) (*Listener, error)

	// DeleteHTTPSListener removes the wildcard HTTPS listener.
	DeleteHTTPSListener(ctx context.Context) error

	// CreateHTTPSListener creates the wildcard HTTPS listener bound to the
	// given hostname and certificate thumbprint.
	CreateHTTPSListener(ctx context.Context, hostname, thumbprint string) error

	// HostIdentity resolves the local computer name and FQDN.
	HostIdentity(ctx context.Context) (Identity, error)
}

// Clock supplies the current time. The reconciler takes it as a dependency
// so expiry decisions are reproducible in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
