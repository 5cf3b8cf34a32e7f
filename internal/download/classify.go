package download

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"imagefetch/internal/download/types"
	"io"
	"net"
	"syscall"
)

// classifyTransportError maps an error from the HTTP round trip or body read
// onto a fetch failure kind. Failures while connecting count as connection
// errors even when they were caused by the dial timeout.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), errStalled) {
		return types.NewError(types.KindTimeout, errStalled)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return types.NewError(types.KindConnection, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return types.NewError(types.KindConnection, err)
	}

	var netErr net.Error
	if (errors.As(err, &netErr) && netErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
		return types.NewError(types.KindTimeout, err)
	}

	if errors.As(err, &opErr) || isConnectionReset(err) || isTLSFailure(err) {
		return types.NewError(types.KindConnection, err)
	}

	return types.NewError(types.KindRequest, err)
}

// classifyBodyError maps an error from reading the response body. Once the
// response has started, resets and truncated bodies are request errors; only
// a stall or a transport timeout is reported as a timeout.
func classifyBodyError(ctx context.Context, err error) error {
	if errors.Is(context.Cause(ctx), errStalled) {
		return types.NewError(types.KindTimeout, errStalled)
	}

	var netErr net.Error
	if (errors.As(err, &netErr) && netErr.Timeout()) || errors.Is(err, context.DeadlineExceeded) {
		return types.NewError(types.KindTimeout, err)
	}

	return types.NewError(types.KindRequest, err)
}

func isConnectionReset(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}

func isTLSFailure(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		recordErr    tls.RecordHeaderError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
		invalidErr   x509.CertificateInvalidError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &recordErr) ||
		errors.As(err, &authorityErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &invalidErr)
}
