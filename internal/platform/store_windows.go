//go:build windows

package platform

import (
	"context"
	"crypto/x509"
	"fmt"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"github.com/certbind-io/winrm-certbind/internal/certstore"
)

// personalStore is the LocalMachine store holding host certificates.
const personalStore = "MY"

// Certificates enumerates the LocalMachine personal certificate store and
// returns parseable certificates as snapshots. Entries crypt32 hands back
// that fail DER parsing are skipped with a warning rather than failing the
// whole run; one corrupt entry should not block reconciliation.
func (p *WindowsProvider) Certificates(ctx context.Context) ([]certstore.Certificate, error) {
	storeName, err := windows.UTF16PtrFromString(personalStore)
	if err != nil {
		return nil, fmt.Errorf("invalid store name: %w", err)
	}

	store, err := windows.CertOpenStore(
		windows.CERT_STORE_PROV_SYSTEM,
		0,
		0,
		windows.CERT_SYSTEM_STORE_LOCAL_MACHINE|windows.CERT_STORE_READONLY_FLAG,
		uintptr(unsafe.Pointer(storeName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open LocalMachine\\%s store: %w", personalStore, err)
	}
	defer windows.CertCloseStore(store, 0)

	var certs []certstore.Certificate
	var cursor *windows.CertContext

	for {
		select {
		case <-ctx.Done():
			return certs, ctx.Err()
		default:
		}

		cursor, err = windows.CertEnumCertificatesInStore(store, cursor)
		if err != nil || cursor == nil {
			// Enumeration end surfaces as CRYPT_E_NOT_FOUND.
			break
		}

		der := make([]byte, cursor.Length)
		copy(der, unsafe.Slice(cursor.EncodedCert, cursor.Length))

		parsed, parseErr := x509.ParseCertificate(der)
		if parseErr != nil {
			p.logger.Warn("skipping unparseable store certificate", zap.Error(parseErr))
			continue
		}

		certs = append(certs, certstore.FromX509(parsed))
	}

	p.logger.Debug("enumerated certificate store",
		zap.String("store", "LocalMachine\\"+personalStore),
		zap.Int("certificates", len(certs)),
	)

	return certs, nil
}

// HostIdentity resolves the short computer name and FQDN from the OS.
func (p *WindowsProvider) HostIdentity(ctx context.Context) (Identity, error) {
	short, err := computerName(windows.ComputerNameNetBIOS)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to read computer name: %w", err)
	}

	fqdn, err := computerName(windows.ComputerNameDnsFullyQualified)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to read host FQDN: %w", err)
	}

	return Identity{ComputerName: short, FQDN: fqdn}, nil
}

func computerName(format uint32) (string, error) {
	size := uint32(0)
	// First call sizes the buffer.
	_ = windows.GetComputerNameEx(format, nil, &size)
	if size == 0 {
		size = 256
	}

	buf := make([]uint16, size)
	if err := windows.GetComputerNameEx(format, &buf[0], &size); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf[:size]), nil
}
