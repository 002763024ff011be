package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

// DisruptAfricaAdapter reads the Disrupt Africa post list.
type DisruptAfricaAdapter struct{}

var _ SiteAdapter = (*DisruptAfricaAdapter)(nil)

func NewDisruptAfricaAdapter() *DisruptAfricaAdapter { return &DisruptAfricaAdapter{} }

func (a *DisruptAfricaAdapter) Source() string { return "Disrupt Africa" }

func (a *DisruptAfricaAdapter) URL() string { return "https://disruptafrica.com/" }

func (a *DisruptAfricaAdapter) Parse(doc *goquery.Document, base *url.URL) []domain.FoundArticle {
	var articles []domain.FoundArticle
	doc.Find(".post-title a").Each(func(_ int, link *goquery.Selection) {
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
