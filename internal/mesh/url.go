package mesh

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL standardizes a URL so every component treats page identity
// consistently. It lowercases the scheme and host, removes default ports and
// fragments, trims trailing slashes from the path, and sorts query
// parameters. A bare "host/path" input is assumed to be https. Normalization
// is idempotent: NormalizeURL(NormalizeURL(u)) == NormalizeURL(u).
//
// Inputs that cannot be coerced into an absolute http(s) URL with a host
// fail with ErrInvalidURL.
func NormalizeURL(rawURL string) (string, error) {
	candidate := strings.TrimSpace(rawURL)
	if candidate == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + candidate)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	u.Host = strings.ToLower(u.Host)
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in %q", ErrInvalidURL, rawURL)
	}

	// Remove default ports.
	if u.Scheme == "http" {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}
	if u.Scheme == "https" {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}

	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")

	// Sort query parameters so equivalent URLs deduplicate.
	if u.RawQuery != "" {
		u.RawQuery = u.Query().Encode()
	}

	return u.String(), nil
}

// DomainOf returns the normalized host of a URL without its port, or an
// empty string when the URL is not a supported http(s) address.
func DomainOf(rawURL string) string {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return ""
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// HostOf returns the normalized host of a URL including any non-default
// port, or an empty string when the URL is not a supported http(s) address.
// Unlike DomainOf, hosts that differ only by port stay distinct.
func HostOf(rawURL string) string {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return ""
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return u.Host
}
