package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

// TechmemeAdapter reads the Techmeme river. Headline links live in
// <strong><a>; they point at the original outlets, so the denylist applies.
type TechmemeAdapter struct {
	denied []string
}

var _ SiteAdapter = (*TechmemeAdapter)(nil)

func NewTechmemeAdapter(denied []string) *TechmemeAdapter {
	return &TechmemeAdapter{denied: denied}
}

func (a *TechmemeAdapter) Source() string { return "Techmeme" }

func (a *TechmemeAdapter) URL() string { return "https://www.techmeme.com/" }

func (a *TechmemeAdapter) Parse(doc *goquery.Document, base *url.URL) []domain.FoundArticle {
	var articles []domain.FoundArticle
	doc.Find("strong > a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		if !ok || href == "" || title == "" {
			return
		}
		resolved := resolveHref(base, href)
		if resolved == "" || containsDenied(resolved, a.denied) {
			return
		}
		articles = append(articles, domain.FoundArticle{
			Title:  title,
			URL:    resolved,
			Source: a.Source(),
		})
	})
	return articles
}
