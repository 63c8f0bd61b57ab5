package ingest

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MinContentLength is the minimum extracted text length to consider a plain
// HTTP fetch successful. Shorter content usually means a JavaScript-rendered
// page that needs the browser fallback.
const MinContentLength = 500

const fetchTimeout = 30 * time.Second

// FetchJobPosting retrieves a job posting from a URL and extracts its text.
// When the plain fetch yields too little content and allowBrowser is set,
// the page is re-rendered in a headless browser.
func FetchJobPosting(ctx context.Context, url string, allowBrowser bool) (string, error) {
	html, err := fetchHTML(ctx, url)
	if err != nil {
		return "", err
	}

	text, err := ExtractText(html)
	if err != nil {
		return "", err
	}

	if needsBrowser(text) && allowBrowser {
		rendered, err := renderWithBrowser(ctx, url, fetchTimeout)
		if err != nil {
			return "", fmt.Errorf("browser fallback failed: %w", err)
		}
		text, err = ExtractText(rendered)
		if err != nil {
			return "", err
		}
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text content extracted from %s", url)
	}
	return text, nil
}

// needsBrowser reports whether extracted text is too short to be the real
// posting.
func needsBrowser(text string) bool {
	return len(strings.TrimSpace(text)) < MinContentLength
}

func fetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("invalid URL %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; proposal-agent/1.0)")

	client := &http.Client{Timeout: fetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML from %s: %w", url, err)
	}

	html, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to serialize HTML from %s: %w", url, err)
	}
	return html, nil
}

// ExtractText strips non-content elements from an HTML document and returns
// cleaned body text.
func ExtractText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, nav, header, footer, iframe").Remove()

	// Prefer main content containers when present.
	for _, selector := range []string{"main", "article", "[role=main]"} {
		if sel := doc.Find(selector); sel.Length() > 0 {
			return CleanText(sel.Text()), nil
		}
	}

	return CleanText(doc.Find("body").Text()), nil
}
