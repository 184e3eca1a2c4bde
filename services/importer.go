package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"knowledgebase-backend/models"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"
	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// ImportService fetches a remote page and turns it into a draft article.
// Imported content stays in draft until an editor approves it, so it never
// reaches retrieval by accident.
type ImportService struct {
	userAgent string
	timeout   time.Duration
}

func NewImportService(userAgent string) *ImportService {
	return &ImportService{
		userAgent: userAgent,
		timeout:   30 * time.Second,
	}
}

// ImportPage fetches the page at pageURL and extracts a draft article from
// it. The slug is derived from the page title, falling back to a random
// suffix when the title yields nothing usable.
func (is *ImportService) ImportPage(pageURL string) (*models.Article, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}

	c := colly.NewCollector(
		colly.AllowedDomains(parsed.Hostname()),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(is.timeout)
	if is.userAgent != "" {
		c.UserAgent = is.userAgent
	}

	var (
		title    string
		summary  string
		bodyHTML string
		fetchErr error
	)

	c.OnHTML("html", func(e *colly.HTMLElement) {
		doc := e.DOM
		title = strings.TrimSpace(doc.Find("title").First().Text())
		if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
			title = h1
		}
		if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
			summary = strings.TrimSpace(desc)
		}
		bodyHTML = extractBodyHTML(doc)
	})

	c.OnError(func(r *colly.Response, err error) {
		if r.StatusCode != 0 {
			fetchErr = fmt.Errorf("fetch failed with status %d: %w", r.StatusCode, err)
			return
		}
		fetchErr = fmt.Errorf("fetch failed: %w", err)
	})

	if err := c.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	c.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if title == "" && bodyHTML == "" {
		return nil, fmt.Errorf("no content extracted from %s", pageURL)
	}

	return &models.Article{
		Slug:      slugify(title),
		Title:     title,
		Summary:   summary,
		BodyHTML:  bodyHTML,
		Status:    models.StatusDraft,
		UpdatedAt: time.Now(),
	}, nil
}

// extractBodyHTML returns the inner HTML of the most content-bearing region
// of the page, preferring semantic containers over the raw body.
func extractBodyHTML(doc *goquery.Selection) string {
	clone := doc.Clone()
	clone.Find("script, style, nav, footer, header, aside").Remove()

	for _, selector := range []string{"main", "article", "[role='main']", "#content", ".content"} {
		sel := clone.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		html, err := sel.Html()
		if err == nil && len(strings.TrimSpace(StripHTML(html))) > 100 {
			return strings.TrimSpace(html)
		}
	}

	html, err := clone.Find("body").First().Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(html)
}

func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > 80 {
		slug = strings.Trim(slug[:80], "-")
	}
	if slug == "" {
		slug = "imported-" + uuid.NewString()[:8]
	}
	return slug
}
