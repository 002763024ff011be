package scraper

import (
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

// SiteAdapter knows how to read one site's listing markup. Parse is pure: it
// never fails, it just skips entries whose markup is missing pieces.
type SiteAdapter interface {
	// Source is the human-readable tag stored on candidates.
	Source() string
	// URL is the canonical root URL the adapter is registered under.
	URL() string
	Parse(doc *goquery.Document, base *url.URL) []domain.FoundArticle
}

// Registry maps canonical site URLs to their adapters, preserving
// registration order so runs visit sites deterministically.
type Registry struct {
	adapters map[string]SiteAdapter
	order    []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: map[string]SiteAdapter{}}
}

// Register adds or replaces an adapter under its canonical URL.
func (r *Registry) Register(adapter SiteAdapter) {
	if r.adapters == nil {
		r.adapters = map[string]SiteAdapter{}
	}
	if _, exists := r.adapters[adapter.URL()]; !exists {
		r.order = append(r.order, adapter.URL())
	}
	r.adapters[adapter.URL()] = adapter
}

// Resolve returns the adapter for a site URL or an error if none is registered.
func (r *Registry) Resolve(siteURL string) (SiteAdapter, error) {
	if adapter, ok := r.adapters[siteURL]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("no adapter registered for %s", siteURL)
}

// Sites lists registered site URLs in registration order.
func (r *Registry) Sites() []string {
	sites := make([]string, len(r.order))
	copy(sites, r.order)
	return sites
}

// DefaultRegistry wires the five monitored sources. The denylist applies to
// adapters surfacing outbound links (Techmeme aggregates other outlets).
func DefaultRegistry(denied []string) *Registry {
	reg := NewRegistry()
	reg.Register(NewTechmemeAdapter(denied))
	reg.Register(NewTechCabalAdapter())
	reg.Register(NewTechpointAdapter())
	reg.Register(NewDisruptAfricaAdapter())
	reg.Register(NewWeeTrackerAdapter())
	return reg
}
