package utils

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
)

// --- Sentinel Errors for Categorization ---
var (
	ErrInputFile        = errors.New("input file error")                // Wraps os errors for the website list
	ErrSitemapFetch     = errors.New("sitemap fetch failed")            // Wraps the underlying network error
	ErrSitemapStatus    = errors.New("sitemap returned non-2xx status") // Wraps status code text
	ErrParsing          = errors.New("parsing error")                   // Wraps specific parsing error (URL, XML, HTML)
	ErrRequestCreation  = errors.New("failed to create HTTP request")   // Bad URL in input or sitemap
	ErrResponseBodyRead = errors.New("failed to read response body")    // Truncated or reset body
	ErrNonOKStatus      = errors.New("page returned non-200 status")    // Page check status failure
	ErrConfigValidation = errors.New("configuration validation error")  // Fatal config problem
)

// WrapErrorf wraps a sentinel with a formatted context message.
func WrapErrorf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}

// CategorizeError maps an error to a predefined category string for logging/metrics.
func CategorizeError(err error) string {
	if err == nil {
		return "None"
	}

	switch {
	case errors.Is(err, ErrNonOKStatus):
		errMsg := err.Error()
		switch {
		case strings.Contains(errMsg, "status 404"):
			return "HTTP_404"
		case strings.Contains(errMsg, "status 403"):
			return "HTTP_403"
		case strings.Contains(errMsg, "status 401"):
			return "HTTP_401"
		case strings.Contains(errMsg, "status 429"):
			return "HTTP_429"
		case strings.Contains(errMsg, "status 4"):
			return "HTTP_4xx"
		case strings.Contains(errMsg, "status 5"):
			return "HTTP_5xx"
		}
		return "HTTP_OtherStatus"
	case errors.Is(err, ErrSitemapStatus):
		return "Sitemap_Status"
	case errors.Is(err, ErrParsing):
		errMsg := err.Error()
		if strings.Contains(errMsg, "URL") {
			return "Content_ParsingURL"
		}
		if strings.Contains(errMsg, "HTML") || strings.Contains(errMsg, "XML") {
			return "Content_ParsingSitemap"
		}
		return "Content_ParsingOther"
	case errors.Is(err, ErrRequestCreation):
		return "Internal_RequestCreation"
	case errors.Is(err, ErrResponseBodyRead):
		return "Network_BodyRead"
	case errors.Is(err, ErrInputFile):
		if errors.Is(err, os.ErrPermission) {
			return "Filesystem_Permission"
		}
		if errors.Is(err, os.ErrNotExist) {
			return "Filesystem_NotExist"
		}
		return "Filesystem_Other"
	case errors.Is(err, ErrConfigValidation):
		return "Config_Validation"
	}

	// Context errors
	if errors.Is(err, context.Canceled) {
		return "System_ContextCanceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Network_Timeout"
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return "Network_TLS"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return "Network_Timeout"
		}
		return "Network_DNSLookup"
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Network_Timeout"
	}

	lowerErrMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(lowerErrMsg, "timeout"):
		return "Network_Timeout"
	case strings.Contains(lowerErrMsg, "connection refused"):
		return "Network_ConnectionRefused"
	case strings.Contains(lowerErrMsg, "no such host"):
		return "Network_DNSLookup"
	case strings.Contains(lowerErrMsg, "tls") || strings.Contains(lowerErrMsg, "certificate"):
		return "Network_TLS"
	case strings.Contains(lowerErrMsg, "reset by peer"):
		return "Network_ConnectionReset"
	case strings.Contains(lowerErrMsg, "unsupported protocol scheme"):
		return "Internal_UnsupportedScheme"
	case strings.Contains(lowerErrMsg, "eof"):
		return "Network_EOF"
	}

	return "Unknown"
}
