// Package certstore models machine-store certificates and selects the best
// candidate for binding to the WinRM HTTPS listener.
package certstore

import (
	"crypto/sha1" //nolint:gosec // SHA-1 is the Windows certificate thumbprint format, not used for signing
	"crypto/x509"
	"encoding/hex"
	"strings"
	"time"
)

// ServerAuthOID is the Enhanced Key Usage OID for TLS server authentication.
const ServerAuthOID = "1.3.6.1.5.5.7.3.1"

// Certificate is a read-only snapshot of one machine-store certificate.
// The store owns the certificate lifecycle; this tool only reads and ranks.
type Certificate struct {
	Thumbprint string
	Subject    string
	Issuer     string
	EKUs       []string
	NotBefore  time.Time
	NotAfter   time.Time
}

// FromX509 converts a parsed store certificate into the snapshot form.
// The thumbprint is the uppercase hex SHA-1 of the DER bytes, matching how
// Windows identifies certificates everywhere else.
func FromX509(cert *x509.Certificate) Certificate {
	sum := sha1.Sum(cert.Raw) //nolint:gosec // thumbprint, not a signature
	ekus := make([]string, 0, len(cert.ExtKeyUsage)+len(cert.UnknownExtKeyUsage))
	for _, eku := range cert.ExtKeyUsage {
		if eku == x509.ExtKeyUsageServerAuth {
			ekus = append(ekus, ServerAuthOID)
		}
	}
	for _, oid := range cert.UnknownExtKeyUsage {
		ekus = append(ekus, oid.String())
	}

	return Certificate{
		Thumbprint: strings.ToUpper(hex.EncodeToString(sum[:])),
		Subject:    cert.Subject.String(),
		Issuer:     cert.Issuer.String(),
		EKUs:       ekus,
		NotBefore:  cert.NotBefore.UTC(),
		NotAfter:   cert.NotAfter.UTC(),
	}
}

// HasServerAuthEKU reports whether the certificate carries the Server
// Authentication usage by exact OID match. Substring matching on "Server"
// would also admit client-auth-only certificates, so it is not done here.
func (c Certificate) HasServerAuthEKU() bool {
	for _, oid := range c.EKUs {
		if oid == ServerAuthOID {
			return true
		}
	}
	return false
}

// NormalizeThumbprint uppercases a thumbprint and strips the whitespace and
// invisible characters that tend to ride along when thumbprints are copied
// out of Windows tooling.
func NormalizeThumbprint(tp string) string {
	var b strings.Builder
	b.Grow(len(tp))
	for _, r := range tp {
		if r == ' ' || r == '\t' || r == '\u200e' || r == '\u200f' || r == '\ufeff' {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// SameThumbprint compares two thumbprints after normalization.
func SameThumbprint(a, b string) bool {
	return NormalizeThumbprint(a) == NormalizeThumbprint(b) && NormalizeThumbprint(a) != ""
}
