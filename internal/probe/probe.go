// Package probe verifies a freshly reconciled listener by dialing it over
// TLS on the loopback interface and comparing the served leaf certificate
// against the thumbprint the listener should be bound to.
package probe

import (
	"context"
	"crypto/sha1" //nolint:gosec // thumbprint comparison, not signing
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/certbind-io/winrm-certbind/internal/certstore"
)

// Prober dials the local listener port and inspects the served certificate.
// Fields are ordered for optimal memory alignment
type Prober struct {
	logger  *zap.Logger
	timeout time.Duration
	port    int
}

// Result is one probe attempt against the listener.
type Result struct {
	Reachable        bool
	ThumbprintMatch  bool
	ServedThumbprint string
	ServedSubject    string
	ServedNotAfter   time.Time
	Error            string
}

// New creates a Prober for the given listener port.
func New(port int, timeout time.Duration, logger *zap.Logger) *Prober {
	return &Prober{
		logger:  logger,
		timeout: timeout,
		port:    port,
	}
}

// Verify connects to 127.0.0.1:port and checks that the served leaf
// matches the expected thumbprint. Verification is strictly local and
// advisory: callers log the result but never change the run's exit code
// on a mismatch.
func (p *Prober) Verify(ctx context.Context, expectedThumbprint string) Result {
	addr := fmt.Sprintf("127.0.0.1:%d", p.port)

	// Chain verification is skipped on purpose: the listener certificate
	// is inspected directly, whatever CA issued it.
	tlsConfig := &tls.Config{
		InsecureSkipVerify: true, //nolint:gosec // local thumbprint comparison, not trust evaluation
	}

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.timeout},
		Config:    tlsConfig,
	}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		p.logger.Debug("listener probe failed",
			zap.String("addr", addr),
			zap.Error(err),
		)
		return Result{Error: fmt.Sprintf("connection failed: %v", err)}
	}
	defer conn.Close()

	state := conn.(*tls.Conn).ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return Result{Reachable: true, Error: "no certificates received"}
	}

	leaf := state.PeerCertificates[0]
	sum := sha1.Sum(leaf.Raw) //nolint:gosec // thumbprint, not a signature
	served := strings.ToUpper(hex.EncodeToString(sum[:]))

	result := Result{
		Reachable:        true,
		ThumbprintMatch:  certstore.SameThumbprint(served, expectedThumbprint),
		ServedThumbprint: served,
		ServedSubject:    leaf.Subject.String(),
		ServedNotAfter:   leaf.NotAfter.UTC(),
	}

	p.logger.Debug("listener probe complete",
		zap.String("addr", addr),
		zap.String("served_thumbprint", served),
		zap.Bool("match", result.ThumbprintMatch),
	)

	return result
}
