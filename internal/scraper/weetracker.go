package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Shalom-302/scraapbackend/internal/domain"
)

// WeeTrackerAdapter reads the WeeTracker front-page headline list.
type WeeTrackerAdapter struct{}

var _ SiteAdapter = (*WeeTrackerAdapter)(nil)

func NewWeeTrackerAdapter() *WeeTrackerAdapter { return &WeeTrackerAdapter{} }

func (a *WeeTrackerAdapter) Source() string { return "WeeTracker" }

func (a *WeeTrackerAdapter) URL() string { return "https://weetracker.com/" }

func (a *WeeTrackerAdapter) Parse(doc *goquery.Document, base *url.URL) []domain.FoundArticle {
	var articles []domain.FoundArticle
	doc.Find("h5.f-title a").Each(func(_ int, link *goquery.Selection) {
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
