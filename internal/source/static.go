package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"github.com/mbriand/rdvwatch/internal/availability"
	"github.com/mbriand/rdvwatch/internal/config"
	"github.com/mbriand/rdvwatch/internal/logger"
)

const (
	userAgent     = "rdvwatch/1.0 (github.com/mbriand/rdvwatch)"
	fetchTimeout  = 30 * time.Second
	fetchAttempts = 3

	// Ancestor elements considered the "card" around a provider link.
	containerSelector = "article, div[class*='card'], li"
)

// StaticSource fetches a server-rendered listing page over plain HTTP and
// harvests raw cards with a CSS selector.
type StaticSource struct {
	site   config.Site
	client *http.Client
}

// NewStaticSource creates a static-HTML source for one catalogue entry.
func NewStaticSource(site config.Site) *StaticSource {
	return &StaticSource{
		site:   site,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Tag returns the source's catalogue tag.
func (s *StaticSource) Tag() string {
	return s.site.Tag
}

// Fetch downloads and parses the listing page, retrying transient failures
// with exponential backoff.
func (s *StaticSource) Fetch(ctx context.Context) ([]availability.RawCard, error) {
	var cards []availability.RawCard
	op := func() error {
		var err error
		cards, err = s.fetchOnce(ctx)
		return err
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchAttempts-1), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *StaticSource) fetchOnce(ctx context.Context) ([]availability.RawCard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.site.URL, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", s.site.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d from %s", resp.StatusCode, s.site.URL)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return s.harvest(doc), nil
}

// harvest collects one raw card per matching link. A link without a
// recognizable ancestor container is dropped; a bad card never aborts the
// batch.
func (s *StaticSource) harvest(doc *goquery.Document) []availability.RawCard {
	var cards []availability.RawCard
	dropped := 0

	doc.Find(s.site.LinkSelector).Each(func(_ int, sel *goquery.Selection) {
		container := sel.Closest(containerSelector)
		if container.Length() == 0 {
			dropped++
			return
		}
		href, _ := sel.Attr("href")
		cards = append(cards, availability.RawCard{
			SourceTag:     s.site.Tag,
			DisplayText:   flattenText(sel.Text()),
			Href:          href,
			ContainerText: flattenText(container.Text()),
			BaseURL:       s.site.BaseURL,
		})
	})

	if dropped > 0 {
		logger.Debug("links without card container dropped", logger.Fields{
			"source": s.site.Tag,
			"count":  dropped,
		})
	}
	return cards
}

// flattenText collapses all whitespace runs (including newlines) to single
// spaces so date fragments split across lines stay matchable.
func flattenText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
