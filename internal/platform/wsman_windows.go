//go:build windows

package platform

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"
	"go.uber.org/zap"

	"github.com/certbind-io/winrm-certbind/internal/certstore"
)

// listenerResourceURI addresses WinRM listener configuration; the selector
// suffix pins the wildcard-address HTTPS listener this tool manages.
const (
	listenerResourceURI = "winrm/config/Listener"
	listenerSelectorURI = listenerResourceURI + "?Address=*+Transport=HTTPS"
	listenerConfigXMLNS = "http://schemas.microsoft.com/wbem/wsman/1/config/listener"
)

// WindowsProvider implements Provider against the local host using the
// WSMan.Automation COM object for listener CRUD and crypt32 for the store.
type WindowsProvider struct {
	logger *zap.Logger
}

// NewProvider creates the local-host provider.
func NewProvider(logger *zap.Logger) *WindowsProvider {
	return &WindowsProvider{logger: logger}
}

// listenerXML mirrors the WSMan listener configuration document. Namespace
// prefixes vary between OS builds, so elements are matched by local name.
type listenerXML struct {
	Address               string `xml:"Address"`
	Transport             string `xml:"Transport"`
	Port                  int    `xml:"Port"`
	Hostname              string `xml:"Hostname"`
	Enabled               bool   `xml:"Enabled"`
	CertificateThumbprint string `xml:"CertificateThumbprint"`
}

// HTTPSListener returns the wildcard HTTPS listener, or nil when WinRM has
// no such listener configured. Enumeration is used instead of a selector
// Get so "absent" is an empty result rather than a COM fault to classify.
func (p *WindowsProvider) HTTPSListener(ctx context.Context) (*Listener, error) {
	var found *Listener

	err := p.withSession(ctx, func(session *ole.IDispatch) error {
		enumRaw, err := oleutil.CallMethod(session, "Enumerate", listenerResourceURI)
		if err != nil {
			return fmt.Errorf("listener enumeration failed: %w", err)
		}
		enum := enumRaw.ToIDispatch()
		defer enum.Release()

		for {
			atEndRaw, err := oleutil.GetProperty(enum, "AtEndOfStream")
			if err != nil {
				return fmt.Errorf("failed to read enumeration state: %w", err)
			}
			atEnd := atEndRaw.Value().(bool)
			_ = atEndRaw.Clear()
			if atEnd {
				return nil
			}

			itemRaw, err := oleutil.CallMethod(enum, "ReadItem")
			if err != nil {
				return fmt.Errorf("failed to read listener item: %w", err)
			}

			doc, ok := itemRaw.Value().(string)
			_ = itemRaw.Clear()
			if !ok {
				continue
			}

			var l listenerXML
			if err := xml.Unmarshal([]byte(doc), &l); err != nil {
				p.logger.Warn("skipping unparseable listener document", zap.Error(err))
				continue
			}

			if l.Address == "*" && strings.EqualFold(l.Transport, "HTTPS") {
				found = &Listener{
					Address:    l.Address,
					Transport:  "HTTPS",
					Hostname:   l.Hostname,
					Thumbprint: certstore.NormalizeThumbprint(l.CertificateThumbprint),
					Port:       l.Port,
					Enabled:    l.Enabled,
				}
				return nil
			}
		}
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// DeleteHTTPSListener removes the wildcard HTTPS listener.
func (p *WindowsProvider) DeleteHTTPSListener(ctx context.Context) error {
	return p.withSession(ctx, func(session *ole.IDispatch) error {
		if _, err := oleutil.CallMethod(session, "Delete", listenerSelectorURI); err != nil {
			return fmt.Errorf("listener delete failed: %w", err)
		}
		p.logger.Info("deleted HTTPS listener")
		return nil
	})
}

// CreateHTTPSListener creates the wildcard HTTPS listener bound to the
// given hostname and certificate. Always a structured WSMan create; the
// listener document carries the binding, the URI carries the selector.
func (p *WindowsProvider) CreateHTTPSListener(ctx context.Context, hostname, thumbprint string) error {
	doc := fmt.Sprintf(
		`<cfg:Listener xmlns:cfg=%q><cfg:Hostname>%s</cfg:Hostname><cfg:CertificateThumbprint>%s</cfg:CertificateThumbprint></cfg:Listener>`,
		listenerConfigXMLNS,
		xmlEscape(hostname),
		certstore.NormalizeThumbprint(thumbprint),
	)

	return p.withSession(ctx, func(session *ole.IDispatch) error {
		if _, err := oleutil.CallMethod(session, "Create", listenerSelectorURI, doc); err != nil {
			return fmt.Errorf("listener create failed: %w", err)
		}
		p.logger.Info("created HTTPS listener",
			zap.String("hostname", hostname),
			zap.String("thumbprint", certstore.NormalizeThumbprint(thumbprint)),
		)
		return nil
	})
}

// withSession runs fn inside a COM apartment with a local WSMan session.
func (p *WindowsProvider) withSession(ctx context.Context, fn func(session *ole.IDispatch) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil {
		oleErr, ok := err.(*ole.OleError)
		// S_FALSE means already initialized, which is fine
		if !ok || oleErr.Code() != 0x00000001 {
			return fmt.Errorf("COM initialization failed: %w", err)
		}
	}
	defer ole.CoUninitialize()

	unknown, err := oleutil.CreateObject("WSMan.Automation")
	if err != nil {
		return fmt.Errorf("failed to create WSMan automation object: %w", err)
	}
	defer unknown.Release()

	wsman, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return fmt.Errorf("failed to get IDispatch: %w", err)
	}
	defer wsman.Release()

	// No connection arguments means the local host.
	sessionRaw, err := oleutil.CallMethod(wsman, "CreateSession")
	if err != nil {
		return fmt.Errorf("failed to create WSMan session: %w", err)
	}
	session := sessionRaw.ToIDispatch()
	defer session.Release()

	return fn(session)
}

func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
