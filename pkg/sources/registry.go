package sources

import (
	"net/url"
	"strings"
)

// registry is populated from init functions and read-only afterwards.
// Nothing mutates it at runtime.
var registry []Parser

func register(p Parser) {
	registry = append(registry, p)
}

// ForURL matches the URL's host against each registered parser's domain
// set; first match wins.
func ForURL(rawURL string) (Parser, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, &UnsupportedSiteError{URL: rawURL}
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range registry {
		for _, domain := range p.Domains() {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return p, nil
			}
		}
	}
	return nil, &UnsupportedSiteError{URL: rawURL}
}

// Supported lists the site names of all registered parsers.
func Supported() []string {
	names := make([]string, len(registry))
	for i, p := range registry {
		names[i] = p.SiteName()
	}
	return names
}
