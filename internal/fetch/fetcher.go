// Package fetch retrieves raw HTML for a single URL using the Colly
// collector, enforcing content-type and size limits with bounded retry on
// transient HTTP failures.
package fetch

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/knowmesh/knowmesh/internal/mesh"
)

// htmlContentTypes are the declared content types accepted as web pages.
var htmlContentTypes = []string{"text/html", "application/xhtml+xml"}

// Config controls fetcher behavior. Zero values fall back to the defaults
// the rest of the pipeline assumes.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	MaxAttempts  int
}

func (c Config) withDefaults() Config {
	if c.UserAgent == "" {
		c.UserAgent = "KnowledgeMesh/1.0 (+https://github.com/knowmesh/knowmesh)"
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1_500_000
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	return c
}

// Fetcher issues single-page GET requests through Colly.
type Fetcher struct {
	cfg    Config
	retry  RetryPolicy
	logger *zap.Logger
}

// New builds a Fetcher with the given retry policy. A nil policy gets the
// exponential default sized to cfg.MaxAttempts.
func New(cfg Config, retry RetryPolicy, logger *zap.Logger) *Fetcher {
	cfg = cfg.withDefaults()
	if retry == nil {
		retry = NewExponentialRetryPolicy(cfg.MaxAttempts)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{cfg: cfg, retry: retry, logger: logger}
}

// Fetch normalizes and validates rawURL, then downloads it. Only the
// transient status set is retried; validation and rejection errors surface
// immediately. The returned Page carries the normalized URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (mesh.Page, error) {
	target, err := mesh.NormalizeURL(rawURL)
	if err != nil {
		return mesh.Page{}, err
	}

	var lastErr error
	for attempt := 1; attempt <= f.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			totalRetries.Inc()
			select {
			case <-ctx.Done():
				return mesh.Page{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
			case <-time.After(f.retry.Backoff(attempt - 2)):
			}
		}

		page, err := f.fetchOnce(ctx, target)
		if err == nil {
			return page, nil
		}
		lastErr = err

		var statusErr *mesh.HTTPStatusError
		if errors.As(err, &statusErr) && f.retry.ShouldRetry(statusErr.StatusCode, attempt) {
			f.logger.Warn("retrying transient fetch failure",
				zap.String("url", target),
				zap.Int("status", statusErr.StatusCode),
				zap.Int("attempt", attempt))
			continue
		}
		break
	}

	totalFailures.Inc()
	return mesh.Page{}, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, target string) (mesh.Page, error) {
	start := time.Now()
	collector := colly.NewCollector(
		colly.UserAgent(f.cfg.UserAgent),
		colly.MaxBodySize(int(f.cfg.MaxBodyBytes)+1),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	collector.SetRequestTimeout(f.cfg.Timeout)

	var (
		page      mesh.Page
		rejectErr error
		httpErr   error
	)

	collector.OnResponseHeaders(func(r *colly.Response) {
		contentType := r.Headers.Get("Content-Type")
		if !isHTMLContentType(contentType) {
			rejectErr = fmt.Errorf("%w: %q at %s", mesh.ErrInvalidContentType, contentType, target)
			r.Request.Abort()
			return
		}
		// Reject up front when the declared length already exceeds the
		// limit; the post-download check below still guards against
		// bodies that lie about their length.
		if declared := r.Headers.Get("Content-Length"); declared != "" {
			if n, err := strconv.ParseInt(declared, 10, 64); err == nil && n > f.cfg.MaxBodyBytes {
				rejectErr = fmt.Errorf("%w: declared %d bytes exceeds limit %d at %s",
					mesh.ErrContentTooLarge, n, f.cfg.MaxBodyBytes, target)
				r.Request.Abort()
			}
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		page = mesh.Page{
			URL:        target,
			StatusCode: r.StatusCode,
			Headers:    r.Headers.Clone(),
			Body:       append([]byte(nil), r.Body...),
			Duration:   time.Since(start),
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode > 0 {
			httpErr = &mesh.HTTPStatusError{URL: target, StatusCode: r.StatusCode}
			return
		}
		httpErr = err
	})

	totalRequests.Inc()
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(target)
	}()

	select {
	case <-ctx.Done():
		return mesh.Page{}, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case visitErr := <-done:
		if rejectErr != nil {
			totalRejected.Inc()
			return mesh.Page{}, rejectErr
		}
		if httpErr != nil {
			return mesh.Page{}, classifyTransportError(httpErr, target)
		}
		if visitErr != nil {
			return mesh.Page{}, classifyTransportError(visitErr, target)
		}
	}

	if int64(len(page.Body)) > f.cfg.MaxBodyBytes {
		totalRejected.Inc()
		return mesh.Page{}, fmt.Errorf("%w: body is %d bytes, limit %d at %s",
			mesh.ErrContentTooLarge, len(page.Body), f.cfg.MaxBodyBytes, target)
	}
	if page.StatusCode == 0 {
		return mesh.Page{}, fmt.Errorf("no response received from %s", target)
	}
	return page, nil
}

func isHTMLContentType(contentType string) bool {
	lowered := strings.ToLower(contentType)
	for _, ct := range htmlContentTypes {
		if strings.Contains(lowered, ct) {
			return true
		}
	}
	return false
}

// classifyTransportError wraps transport failures into user-facing messages
// that distinguish timeout, certificate, and generic network errors. HTTP
// status errors pass through unchanged.
func classifyTransportError(err error, target string) error {
	var statusErr *mesh.HTTPStatusError
	if errors.As(err, &statusErr) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("request timed out fetching %s: %w", target, err)
	}
	var certVerifyErr *tls.CertificateVerificationError
	var unknownAuthErr x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	if errors.As(err, &certVerifyErr) || errors.As(err, &unknownAuthErr) || errors.As(err, &hostnameErr) {
		return fmt.Errorf("TLS certificate error fetching %s: %w", target, err)
	}
	return fmt.Errorf("network error fetching %s: %w", target, err)
}
