//go:build !windows

package platform

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/certbind-io/winrm-certbind/internal/certstore"
)

// WindowsProvider is a stub off Windows. Every platform call fails; the
// reconciler and its tests run against fakes on other systems.
type WindowsProvider struct {
	logger *zap.Logger
}

// NewProvider creates the stub provider.
func NewProvider(logger *zap.Logger) *WindowsProvider {
	return &WindowsProvider{logger: logger}
}

var errUnsupported = fmt.Errorf("WinRM listener management requires Windows")

// Certificates fails off Windows.
func (p *WindowsProvider) Certificates(ctx context.Context) ([]certstore.Certificate, error) {
	return nil, errUnsupported
}

// HTTPSListener fails off Windows.
func (p *WindowsProvider) HTTPSListener(ctx context.Context) (*Listener, error) {
	return nil, errUnsupported
}

// DeleteHTTPSListener fails off Windows.
func (p *WindowsProvider) DeleteHTTPSListener(ctx context.Context) error {
	return errUnsupported
}

// CreateHTTPSListener fails off Windows.
func (p *WindowsProvider) CreateHTTPSListener(ctx context.Context, hostname, thumbprint string) error {
	return errUnsupported
}

// HostIdentity fails off Windows.
func (p *WindowsProvider) HostIdentity(ctx context.Context) (Identity, error) {
	return Identity{}, errUnsupported
}
