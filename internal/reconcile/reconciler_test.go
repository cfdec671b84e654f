package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/certbind-io/winrm-certbind/internal/certstore"
	"github.com/certbind-io/winrm-certbind/internal/logging"
	"github.com/certbind-io/winrm-certbind/internal/platform"
)

// fakeProvider records mutation order and serves canned state.
type fakeProvider struct {
	listener    *platform.Listener
	certs       []certstore.Certificate
	listenerErr error
	certsErr    error
	deleteErr   error
	createErr   error

	calls          []string
	createHostname string
	createThumb    string
}

func (f *fakeProvider) Certificates(ctx context.Context) ([]certstore.Certificate, error) {
	f.calls = append(f.calls, "certificates")
	return f.certs, f.certsErr
}

func (f *fakeProvider) HTTPSListener(ctx context.Context) (*platform.Listener, error) {
	f.calls = append(f.calls, "get")
	return f.listener, f.listenerErr
}

func (f *fakeProvider) DeleteHTTPSListener(ctx context.Context) error {
	f.calls = append(f.calls, "delete")
	return f.deleteErr
}

func (f *fakeProvider) CreateHTTPSListener(ctx context.Context, hostname, thumbprint string) error {
	f.calls = append(f.calls, "create")
	f.createHostname = hostname
	f.createThumb = thumbprint
	return f.createErr
}

func (f *fakeProvider) HostIdentity(ctx context.Context) (platform.Identity, error) {
	return platform.Identity{ComputerName: "HOST01", FQDN: "host01.corp.example.com"}, nil
}

func (f *fakeProvider) mutations() []string {
	var m []string
	for _, c := range f.calls {
		if c == "delete" || c == "create" {
			m = append(m, c)
		}
	}
	return m
}

// recordSink captures maintenance-log records.
type recordSink struct {
	records []struct {
		severity  logging.Severity
		message   string
		component string
	}
}

func (s *recordSink) Log(severity logging.Severity, message, component string) error {
	s.records = append(s.records, struct {
		severity  logging.Severity
		message   string
		component string
	}{severity, message, component})
	return nil
}

func (s *recordSink) Close() error { return nil }

// fixedClock pins time for expiry decisions.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)

func hostCert(thumbprint string, notAfter time.Time) certstore.Certificate {
	return certstore.Certificate{
		Thumbprint: thumbprint,
		Subject:    "CN=HOST01.corp.example.com",
		Issuer:     "CN=Corp Issuing CA 01",
		EKUs:       []string{certstore.ServerAuthOID},
		NotAfter:   notAfter,
	}
}

func newTestReconciler(p *fakeProvider) (*Reconciler, *recordSink) {
	sink := &recordSink{}
	r := New(
		p,
		certstore.NewSelector("HOST01"),
		fixedClock{testNow},
		sink,
		zap.NewNop(),
		platform.Identity{ComputerName: "HOST01", FQDN: "host01.corp.example.com"},
	)
	return r, sink
}

func TestReconcile_AlreadyOptimal(t *testing.T) {
	best := hostCert("AAAA", testNow.Add(365*24*time.Hour))
	p := &fakeProvider{
		listener: &platform.Listener{Address: "*", Transport: "HTTPS", Thumbprint: "AAAA"},
		certs:    []certstore.Certificate{best, hostCert("BBBB", testNow.Add(30*24*time.Hour))},
	}
	r, sink := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeAlreadyOptimal {
		t.Errorf("Outcome = %v, want already_optimal", res.Outcome)
	}
	if res.Outcome.ExitCode() != 0 {
		t.Errorf("ExitCode() = %v, want 0", res.Outcome.ExitCode())
	}
	if len(p.mutations()) != 0 {
		t.Errorf("mutations = %v, want none", p.mutations())
	}
	if len(sink.records) != 1 {
		t.Fatalf("len(records) = %v, want 1", len(sink.records))
	}
	if sink.records[0].severity != logging.Info {
		t.Errorf("record severity = %v, want info", sink.records[0].severity)
	}
}

func TestReconcile_UpgradeDeletesThenCreates(t *testing.T) {
	newer := hostCert("BBBB", testNow.Add(500*24*time.Hour))
	p := &fakeProvider{
		listener: &platform.Listener{Address: "*", Transport: "HTTPS", Thumbprint: "AAAA"},
		certs:    []certstore.Certificate{hostCert("AAAA", testNow.Add(30*24*time.Hour)), newer},
	}
	r, sink := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeUpgraded {
		t.Errorf("Outcome = %v, want upgraded", res.Outcome)
	}
	if res.Outcome.ExitCode() != 0 {
		t.Errorf("ExitCode() = %v, want 0", res.Outcome.ExitCode())
	}
	muts := p.mutations()
	if len(muts) != 2 || muts[0] != "delete" || muts[1] != "create" {
		t.Errorf("mutations = %v, want [delete create]", muts)
	}
	if p.createThumb != "BBBB" {
		t.Errorf("create thumbprint = %v, want BBBB", p.createThumb)
	}
	if p.createHostname != "host01.corp.example.com" {
		t.Errorf("create hostname = %v, want host01.corp.example.com", p.createHostname)
	}
	if res.BoundThumbprint != "BBBB" {
		t.Errorf("BoundThumbprint = %v, want BBBB", res.BoundThumbprint)
	}
	if len(sink.records) != 1 {
		t.Errorf("len(records) = %v, want 1", len(sink.records))
	}
}

func TestReconcile_ListenerExistsNoEligibleCert(t *testing.T) {
	selfIssued := hostCert("AAAA", testNow.Add(365*24*time.Hour))
	selfIssued.Issuer = "CN=HOST01"
	p := &fakeProvider{
		listener: &platform.Listener{Address: "*", Transport: "HTTPS", Thumbprint: "AAAA"},
		certs:    []certstore.Certificate{selfIssued},
	}
	r, sink := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeNoReplacement {
		t.Errorf("Outcome = %v, want no_replacement_certificate", res.Outcome)
	}
	if res.Outcome.ExitCode() != 1 {
		t.Errorf("ExitCode() = %v, want 1", res.Outcome.ExitCode())
	}
	if len(p.mutations()) != 0 {
		t.Errorf("mutations = %v, want none", p.mutations())
	}
	if len(sink.records) != 1 || sink.records[0].severity != logging.Error {
		t.Errorf("records = %+v, want one error record", sink.records)
	}
}

func TestReconcile_NoListenerNoEligibleCert(t *testing.T) {
	p := &fakeProvider{certs: nil}
	r, _ := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeNoCertificate {
		t.Errorf("Outcome = %v, want no_eligible_certificate", res.Outcome)
	}
	if res.Outcome.ExitCode() != 3 {
		t.Errorf("ExitCode() = %v, want 3 (distinct from the listener-exists case)", res.Outcome.ExitCode())
	}
	if len(p.mutations()) != 0 {
		t.Errorf("mutations = %v, want none", p.mutations())
	}
}

func TestReconcile_NoEligibleCertExitCodeDependsOnListener(t *testing.T) {
	// The same ineligible store must exit 1 when a listener exists and 3
	// when it does not; the two conditions alert differently.
	selfIssued := hostCert("AAAA", testNow.Add(365*24*time.Hour))
	selfIssued.Issuer = "CN=HOST01"

	withListener := &fakeProvider{
		listener: &platform.Listener{Address: "*", Transport: "HTTPS", Thumbprint: "AAAA"},
		certs:    []certstore.Certificate{selfIssued},
	}
	r, _ := newTestReconciler(withListener)
	if got := r.Reconcile(context.Background()).Outcome.ExitCode(); got != 1 {
		t.Errorf("ExitCode() with listener = %v, want 1", got)
	}

	withoutListener := &fakeProvider{certs: []certstore.Certificate{selfIssued}}
	r, _ = newTestReconciler(withoutListener)
	if got := r.Reconcile(context.Background()).Outcome.ExitCode(); got != 3 {
		t.Errorf("ExitCode() without listener = %v, want 3", got)
	}
}

func TestReconcile_NoListenerExpiredBest(t *testing.T) {
	expired := hostCert("AAAA", testNow.Add(-24*time.Hour))
	p := &fakeProvider{certs: []certstore.Certificate{expired}}
	r, _ := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeCertificateExpired {
		t.Errorf("Outcome = %v, want certificate_expired", res.Outcome)
	}
	if res.Outcome.ExitCode() != 1 {
		t.Errorf("ExitCode() = %v, want 1", res.Outcome.ExitCode())
	}
	if len(p.mutations()) != 0 {
		t.Errorf("mutations = %v, want none", p.mutations())
	}
}

func TestReconcile_NoListenerCreates(t *testing.T) {
	older := hostCert("AAAA", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := hostCert("BBBB", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	p := &fakeProvider{certs: []certstore.Certificate{older, newer}}

	// Run "now" before both expiries so the winner is not expired.
	sink := &recordSink{}
	r := New(p, certstore.NewSelector("HOST01"), fixedClock{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		sink, zap.NewNop(), platform.Identity{ComputerName: "HOST01", FQDN: "host01.corp.example.com"})

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeCreated {
		t.Errorf("Outcome = %v, want created", res.Outcome)
	}
	if res.Outcome.ExitCode() != 0 {
		t.Errorf("ExitCode() = %v, want 0", res.Outcome.ExitCode())
	}
	if p.createThumb != "BBBB" {
		t.Errorf("create thumbprint = %v, want BBBB (longest validity)", p.createThumb)
	}
	muts := p.mutations()
	if len(muts) != 1 || muts[0] != "create" {
		t.Errorf("mutations = %v, want [create]", muts)
	}
}

func TestReconcile_CreateFailure(t *testing.T) {
	cert := hostCert("AAAA", testNow.Add(365*24*time.Hour))
	p := &fakeProvider{
		certs:     []certstore.Certificate{cert},
		createErr: fmt.Errorf("WSMan fault 0x80338104"),
	}
	r, sink := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeProvisioningFailed {
		t.Errorf("Outcome = %v, want provisioning_failed", res.Outcome)
	}
	if res.Outcome.ExitCode() != 4 {
		t.Errorf("ExitCode() = %v, want 4", res.Outcome.ExitCode())
	}
	if len(sink.records) != 1 || sink.records[0].severity != logging.Error {
		t.Errorf("records = %+v, want one error record", sink.records)
	}
}

func TestReconcile_UpgradeCreateFailureNoRollback(t *testing.T) {
	newer := hostCert("BBBB", testNow.Add(500*24*time.Hour))
	p := &fakeProvider{
		listener:  &platform.Listener{Address: "*", Transport: "HTTPS", Thumbprint: "AAAA"},
		certs:     []certstore.Certificate{newer},
		createErr: fmt.Errorf("WSMan fault"),
	}
	r, _ := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeProvisioningFailed {
		t.Errorf("Outcome = %v, want provisioning_failed", res.Outcome)
	}
	// Delete happened, create failed, and nothing tries to restore the
	// original listener.
	muts := p.mutations()
	if len(muts) != 2 || muts[0] != "delete" || muts[1] != "create" {
		t.Errorf("mutations = %v, want [delete create]", muts)
	}
}

func TestReconcile_ListenerQueryFailure(t *testing.T) {
	p := &fakeProvider{listenerErr: fmt.Errorf("WSMan unreachable")}
	r, _ := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeProvisioningFailed {
		t.Errorf("Outcome = %v, want provisioning_failed", res.Outcome)
	}
	if len(p.mutations()) != 0 {
		t.Errorf("mutations = %v, want none after query failure", p.mutations())
	}
}

func TestReconcile_StoreQueryFailure(t *testing.T) {
	p := &fakeProvider{certsErr: fmt.Errorf("store unavailable")}
	r, _ := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeProvisioningFailed {
		t.Errorf("Outcome = %v, want provisioning_failed", res.Outcome)
	}
	if len(p.mutations()) != 0 {
		t.Errorf("mutations = %v, want none after query failure", p.mutations())
	}
}

func TestReconcile_ThumbprintComparisonNormalizes(t *testing.T) {
	best := hostCert("AABBCCDD", testNow.Add(365*24*time.Hour))
	p := &fakeProvider{
		listener: &platform.Listener{Address: "*", Transport: "HTTPS", Thumbprint: "aa bb cc dd"},
		certs:    []certstore.Certificate{best},
	}
	r, _ := newTestReconciler(p)

	res := r.Reconcile(context.Background())

	if res.Outcome != OutcomeAlreadyOptimal {
		t.Errorf("Outcome = %v, want already_optimal despite thumbprint formatting", res.Outcome)
	}
}

func TestOutcome_ExitCodes(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    int
	}{
		{OutcomeAlreadyOptimal, 0},
		{OutcomeUpgraded, 0},
		{OutcomeCreated, 0},
		{OutcomeNoReplacement, 1},
		{OutcomeCertificateExpired, 1},
		{OutcomeNoCertificate, 3},
		{OutcomeProvisioningFailed, 4},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.String(), func(t *testing.T) {
			if got := tt.outcome.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %v, want %v", got, tt.want)
			}
		})
	}
}
