package youtube

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"welux-admin/internal/util"
)

// TitleFetcher reads a video's title from its watch page.
type TitleFetcher struct {
	BaseURL string
	hc      *http.Client
	limiter *util.HostLimiter
}

func NewTitleFetcher(limiter *util.HostLimiter) *TitleFetcher {
	return &TitleFetcher{
		BaseURL: "https://www.youtube.com",
		hc:      &http.Client{Timeout: 10 * time.Second},
		limiter: limiter,
	}
}

// SetTimeout bounds each page fetch; d <= 0 keeps the current bound.
func (f *TitleFetcher) SetTimeout(d time.Duration) {
	if d > 0 {
		f.hc.Timeout = d
	}
}

func (f *TitleFetcher) Title(ctx context.Context, id string) (string, error) {
	pageURL := strings.TrimRight(f.BaseURL, "/") + "/watch?v=" + url.QueryEscape(id)
	if err := f.limiter.WaitURL(ctx, pageURL); err != nil {
		return "", err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	res, err := f.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("youtube get watch page: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("youtube watch page status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return "", fmt.Errorf("youtube parse watch page: %w", err)
	}
	return pageTitle(doc), nil
}

func pageTitle(doc *goquery.Document) string {
	for _, sel := range []string{`meta[property="og:title"]`, `meta[name="title"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	t := strings.TrimSpace(doc.Find("title").First().Text())
	t = strings.TrimSuffix(t, " - YouTube")
	return strings.TrimSpace(t)
}
