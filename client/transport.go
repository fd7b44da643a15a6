package client

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"syscall"

	"github.com/adamwoolhether/netcall/client/throttle"
)

// transportError maps a failure from the round trip, or from reading the
// response body, into the taxonomy. The original error never escapes.
func transportError(err error) *Error {
	switch {
	case errors.Is(err, context.Canceled):
		return RequestFailed(CodeCancelled)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, throttle.ErrWaitingFailed):
		return RequestFailed(CodeTimedOut)
	}

	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			return RequestFailed(CodeTimedOut)
		}
		if ue.Op == "parse" || !sendable(ue.URL) {
			return InvalidURL()
		}
		err = ue.Err
	}

	var escErr url.EscapeError
	var invalidHostErr url.InvalidHostError
	if errors.As(err, &escErr) || errors.As(err, &invalidHostErr) {
		return InvalidURL()
	}

	var (
		netErr     net.Error
		dnsErr     *net.DNSError
		opErr      *net.OpError
		verifyErr  *tls.CertificateVerificationError
		authErr    x509.UnknownAuthorityError
		hostErr    x509.HostnameError
		invalidErr x509.CertificateInvalidError
		recordErr  tls.RecordHeaderError
	)

	switch {
	case errors.As(err, &netErr) && netErr.Timeout():
		return RequestFailed(CodeTimedOut)
	case errors.As(err, &dnsErr):
		return RequestFailed(CodeCannotFindHost)
	case errors.As(err, &verifyErr), errors.As(err, &authErr), errors.As(err, &hostErr),
		errors.As(err, &invalidErr), errors.As(err, &recordErr):
		return RequestFailed(CodeSecureConnectionFailed)
	case errors.Is(err, syscall.ECONNREFUSED):
		return RequestFailed(CodeCannotConnectToHost)
	case errors.Is(err, syscall.ECONNRESET), errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return RequestFailed(CodeNetworkConnectionLost)
	case errors.As(err, &opErr):
		if opErr.Op == "dial" {
			return RequestFailed(CodeCannotConnectToHost)
		}
		return RequestFailed(CodeNetworkConnectionLost)
	}

	return Unknown()
}

// sendable reports whether rawURL is one net/http will put on the wire.
// BuildRequest guarantees this for the first hop, so a failure here comes
// from a redirect target, which http.Client records in url.Error.URL.
func sendable(rawURL string) bool {
	if rawURL == "" {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() != ""
}
