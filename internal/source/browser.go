package source

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/mbriand/rdvwatch/internal/availability"
	"github.com/mbriand/rdvwatch/internal/config"
	"github.com/mbriand/rdvwatch/internal/logger"
)

const (
	navTimeout     = 30 * time.Second
	consentTimeout = 3 * time.Second
	cardTimeout    = 2 * time.Second
	scrollRounds   = 8
	scrollStep     = 2000
	scrollPause    = 600 * time.Millisecond
)

// consentButtonRe matches the cookie-consent button labels Doctolib and
// similar French sites use.
const consentButtonRe = `/Accepter|Tout accepter|J'accepte/i`

// BrowserSource renders a listing page in headless Chrome (with stealth
// patches applied) and harvests raw cards from the live DOM. Needed for
// sites that only populate availability through JavaScript.
type BrowserSource struct {
	site config.Site
}

// NewBrowserSource creates a browser-rendered source for one catalogue entry.
func NewBrowserSource(site config.Site) *BrowserSource {
	return &BrowserSource{site: site}
}

// Tag returns the source's catalogue tag.
func (s *BrowserSource) Tag() string {
	return s.site.Tag
}

// Fetch launches Chrome, renders the listing, and reads every card. Each
// card read carries its own short timeout so one stuck element cannot stall
// the extraction.
func (s *BrowserSource) Fetch(ctx context.Context) ([]availability.RawCard, error) {
	l := launcher.New().Headless(true)
	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	defer func() {
		if err := browser.Close(); err != nil {
			logger.Debug("closing browser", logger.Fields{"error": err.Error()})
		}
		l.Cleanup()
	}()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, fmt.Errorf("creating page: %w", err)
	}
	page = page.Context(ctx)

	if err := page.Timeout(navTimeout).Navigate(s.site.URL); err != nil {
		return nil, fmt.Errorf("navigating %s: %w", s.site.URL, err)
	}
	if err := page.Timeout(navTimeout).WaitLoad(); err != nil {
		logger.Warn("page load wait timed out, reading what rendered", logger.Fields{
			"source": s.site.Tag,
			"error":  err.Error(),
		})
	}

	s.acceptCookies(page)
	s.scrollForLazyLoad(page)

	elements, err := page.Elements(s.site.LinkSelector)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}

	cards := make([]availability.RawCard, 0, len(elements))
	unreadable := 0
	for _, el := range elements {
		card, err := s.readCard(el)
		if err != nil {
			unreadable++
			continue
		}
		cards = append(cards, card)
	}
	if unreadable > 0 {
		logger.Debug("unreadable cards dropped", logger.Fields{
			"source": s.site.Tag,
			"count":  unreadable,
		})
	}
	return cards, nil
}

// acceptCookies dismisses the consent banner when one shows up within the
// grace period. Sites without a banner just time out quietly.
func (s *BrowserSource) acceptCookies(page *rod.Page) {
	el, err := page.Timeout(consentTimeout).ElementR("button", consentButtonRe)
	if err != nil {
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		logger.Debug("cookie consent click failed", logger.Fields{
			"source": s.site.Tag,
			"error":  err.Error(),
		})
	}
}

// scrollForLazyLoad scrolls down in bounded rounds until the page height
// stops growing, forcing lazy-loaded cards to render.
func (s *BrowserSource) scrollForLazyLoad(page *rod.Page) {
	lastHeight := 0
	for i := 0; i < scrollRounds; i++ {
		if err := page.Mouse.Scroll(0, scrollStep, 1); err != nil {
			return
		}
		time.Sleep(scrollPause)

		res, err := page.Eval(`() => document.body.scrollHeight`)
		if err != nil {
			return
		}
		h := res.Value.Int()
		if h == lastHeight {
			break
		}
		lastHeight = h
	}
}

// readCard pulls the display name, link, and surrounding card text for one
// listing entry.
func (s *BrowserSource) readCard(el *rod.Element) (availability.RawCard, error) {
	el = el.Timeout(cardTimeout)

	name, err := el.Text()
	if err != nil {
		return availability.RawCard{}, fmt.Errorf("reading link text: %w", err)
	}
	href, err := el.Attribute("href")
	if err != nil {
		return availability.RawCard{}, fmt.Errorf("reading href: %w", err)
	}
	hrefVal := ""
	if href != nil {
		hrefVal = *href
	}

	res, err := el.Eval(`() => {
		const c = this.closest("article, div[class*='card'], li");
		return c ? c.innerText : "";
	}`)
	if err != nil {
		return availability.RawCard{}, fmt.Errorf("reading card container: %w", err)
	}

	return availability.RawCard{
		SourceTag:     s.site.Tag,
		DisplayText:   flattenText(name),
		Href:          hrefVal,
		ContainerText: flattenText(res.Value.Str()),
		BaseURL:       s.site.BaseURL,
	}, nil
}
