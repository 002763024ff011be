package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

// TechpointAdapter reads the Techpoint Africa query-loop grid.
type TechpointAdapter struct{}

var _ SiteAdapter = (*TechpointAdapter)(nil)

func NewTechpointAdapter() *TechpointAdapter { return &TechpointAdapter{} }

func (a *TechpointAdapter) Source() string { return "TechPoint Africa" }

func (a *TechpointAdapter) URL() string { return "https://techpoint.africa/" }

func (a *TechpointAdapter) Parse(doc *goquery.Document, base *url.URL) []domain.FoundArticle {
	var articles []domain.FoundArticle
	doc.Find("div.gb-query-loop-item .value a").Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		title := strings.TrimSpace(link.Text())
		if !ok || href == "" || title == "" {
			return
		}
		resolved := resolveHref(base, href)
		if resolved == "" {
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
