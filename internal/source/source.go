package source

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mbriand/rdvwatch/internal/availability"
	"github.com/mbriand/rdvwatch/internal/config"
	"github.com/mbriand/rdvwatch/internal/logger"
)

// Source produces the raw cards of one listing page.
type Source interface {
	Tag() string
	Fetch(ctx context.Context) ([]availability.RawCard, error)
}

// Build constructs one Source per catalogue entry.
func Build(sites []config.Site) []Source {
	sources := make([]Source, 0, len(sites))
	for _, site := range sites {
		switch site.Render {
		case config.RenderStatic:
			sources = append(sources, NewStaticSource(site))
		default:
			sources = append(sources, NewBrowserSource(site))
		}
	}
	return sources
}

// FetchAll queries every source concurrently. Each fetch accumulates into
// its own slot and the slots are joined in catalogue order once all fetches
// complete; there is no partial merge and no shared accumulator. A failed
// source is logged and yields nothing; FetchAll errors only when every
// source failed, since then the pipeline has nothing to extract from.
func FetchAll(ctx context.Context, sources []Source) ([][]availability.RawCard, error) {
	results := make([][]availability.RawCard, len(sources))
	errs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			start := time.Now()
			cards, err := src.Fetch(ctx)
			logger.RecordTiming("fetch."+src.Tag(), time.Since(start))
			if err != nil {
				errs[i] = err
				logger.Warn("source fetch failed", logger.Fields{
					"source": src.Tag(),
					"error":  err.Error(),
				})
				return
			}
			results[i] = cards
			logger.Info("source fetched", logger.Fields{
				"source": src.Tag(),
				"cards":  len(cards),
			})
		}(i, src)
	}
	wg.Wait()

	var firstErr error
	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if len(sources) > 0 && failed == len(sources) {
		return nil, fmt.Errorf("all %d sources failed: %w", failed, firstErr)
	}
	return results, nil
}
