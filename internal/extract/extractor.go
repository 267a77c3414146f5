// Package extract strips non-content markup from fetched HTML, linearizes
// the visible text, and resolves outbound anchor links against the page URL.
package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/knowmesh/knowmesh/internal/mesh"
)

// skippedElements are elements whose subtrees never contribute visible text.
var skippedElements = map[string]struct{}{
	"script":   {},
	"style":    {},
	"noscript": {},
}

// HTMLExtractor adapts Extract to the pipeline's Extractor interface.
type HTMLExtractor struct{}

// Extract calls the package-level Extract.
func (HTMLExtractor) Extract(body []byte, baseURL string, sameDomainOnly bool) (Result, error) {
	return Extract(body, baseURL, sameDomainOnly)
}

// Result holds the visible text and normalized outbound links of one page.
type Result struct {
	// Text is every non-empty trimmed text fragment in document order,
	// joined by single spaces. No heading or paragraph structure survives.
	Text string
	// Links are normalized, de-duplicated outbound URLs in first-seen
	// order. No limit is applied at this layer.
	Links []string
}

// Extract parses body and returns the page's visible text and outbound
// links resolved against baseURL. When sameDomainOnly is set, links whose
// normalized host differs from the base URL's host are discarded.
func Extract(body []byte, baseURL string, sameDomainOnly bool) (Result, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("parse HTML: %w", err)
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return Result{}, fmt.Errorf("parse base URL %q: %w", baseURL, err)
	}
	baseHost := mesh.HostOf(baseURL)

	var (
		fragments []string
		links     []string
		seen      = make(map[string]struct{})
	)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if _, skip := skippedElements[n.Data]; skip {
				return
			}
			if n.Data == "a" {
				if link, ok := resolveAnchor(n, base, baseHost, sameDomainOnly); ok {
					if _, dup := seen[link]; !dup {
						seen[link] = struct{}{}
						links = append(links, link)
					}
				}
			}
		case html.TextNode:
			if trimmed := strings.TrimSpace(n.Data); trimmed != "" {
				fragments = append(fragments, trimmed)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return Result{Text: strings.Join(fragments, " "), Links: links}, nil
}

// resolveAnchor extracts the anchor's href, resolves it against the base,
// and normalizes it. It reports false for missing hrefs, unparseable or
// non-http(s) targets, and cross-host links when sameDomainOnly is set.
// Host comparison includes any non-default port, so a different port on the
// same name does not count as the same domain.
func resolveAnchor(n *html.Node, base *url.URL, baseHost string, sameDomainOnly bool) (string, bool) {
	var href string
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			href = strings.TrimSpace(attr.Val)
			break
		}
	}
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	normalized, err := mesh.NormalizeURL(resolved.String())
	if err != nil {
		return "", false
	}
	if sameDomainOnly && mesh.HostOf(normalized) != baseHost {
		return "", false
	}
	return normalized, true
}
