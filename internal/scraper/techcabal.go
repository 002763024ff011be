package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

// TechCabalAdapter reads the TechCabal article list.
type TechCabalAdapter struct{}

var _ SiteAdapter = (*TechCabalAdapter)(nil)

func NewTechCabalAdapter() *TechCabalAdapter { return &TechCabalAdapter{} }

func (a *TechCabalAdapter) Source() string { return "TechCabal" }

func (a *TechCabalAdapter) URL() string { return "https://techcabal.com/" }

func (a *TechCabalAdapter) Parse(doc *goquery.Document, base *url.URL) []domain.FoundArticle {
	var articles []domain.FoundArticle
	doc.Find("article.article-list-item a.article-list-title").Each(func(_ int, link *goquery.Selection) {
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
