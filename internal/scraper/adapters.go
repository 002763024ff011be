package scraper

import (
	"net/url"
	"strings"
)

// DefaultDeniedDomains lists outlets whose links are skipped during
// discovery, mostly paywalled wires and ad redirectors.
var DefaultDeniedDomains = []string{
	"bloomberg.com",
	"wsj.com",
	"nytimes.com",
	"reuters.com",
	"ft.com",
	"theinformation.com",
	"axios.com",
	"t.co",
	"ad.doubleclick.net",
}

// resolveHref makes an absolute URL out of a possibly relative href.
// Malformed hrefs yield "" and the entry is skipped by the caller.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func containsDenied(candidateURL string, denied []string) bool {
	for _, domain := range denied {
		if strings.Contains(candidateURL, domain) {
			return true
		}
	}
	return false
}
