package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mbriand/rdvwatch/internal/availability"
	"github.com/mbriand/rdvwatch/internal/config"
)

type fakeSource struct {
	tag   string
	cards []availability.RawCard
	err   error
	delay time.Duration
}

func (f *fakeSource) Tag() string { return f.tag }

func (f *fakeSource) Fetch(ctx context.Context) ([]availability.RawCard, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.cards, f.err
}

func cardFor(tag, name string) availability.RawCard {
	return availability.RawCard{SourceTag: tag, DisplayText: name, Href: "/" + name}
}

func TestFetchAll_JoinsInCatalogueOrder(t *testing.T) {
	sources := []Source{
		&fakeSource{tag: "slow", cards: []availability.RawCard{cardFor("slow", "a")}, delay: 50 * time.Millisecond},
		&fakeSource{tag: "fast", cards: []availability.RawCard{cardFor("fast", "b")}},
	}

	results, err := FetchAll(context.Background(), sources)
	if err != nil {
		t.Fatalf("FetchAll() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d slots, want 2", len(results))
	}
	// The slow source finishes last but keeps the first slot.
	if results[0][0].SourceTag != "slow" || results[1][0].SourceTag != "fast" {
		t.Errorf("results out of catalogue order: %+v", results)
	}
}

func TestFetchAll_PartialFailure(t *testing.T) {
	sources := []Source{
		&fakeSource{tag: "down", err: errors.New("navigation failed")},
		&fakeSource{tag: "up", cards: []availability.RawCard{cardFor("up", "a")}},
	}

	results, err := FetchAll(context.Background(), sources)
	if err != nil {
		t.Fatalf("FetchAll() with one healthy source should not error: %v", err)
	}
	if len(results[0]) != 0 {
		t.Errorf("failed source slot = %+v, want empty", results[0])
	}
	if len(results[1]) != 1 {
		t.Errorf("healthy source slot = %+v, want one card", results[1])
	}
}

func TestFetchAll_AllFailed(t *testing.T) {
	sources := []Source{
		&fakeSource{tag: "a", err: errors.New("boom")},
		&fakeSource{tag: "b", err: errors.New("bust")},
	}

	if _, err := FetchAll(context.Background(), sources); err == nil {
		t.Fatal("FetchAll() expected error when every source failed")
	}
}

func TestFetchAll_NoSources(t *testing.T) {
	results, err := FetchAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("FetchAll(nil) error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("results = %+v, want empty", results)
	}
}

func TestBuild(t *testing.T) {
	sites := []config.Site{
		{Tag: "doctolib", Render: config.RenderBrowser},
		{Tag: "clinique", Render: config.RenderStatic},
	}

	sources := Build(sites)
	if len(sources) != 2 {
		t.Fatalf("Build() = %d sources, want 2", len(sources))
	}
	if _, ok := sources[0].(*BrowserSource); !ok {
		t.Errorf("sources[0] = %T, want *BrowserSource", sources[0])
	}
	if _, ok := sources[1].(*StaticSource); !ok {
		t.Errorf("sources[1] = %T, want *StaticSource", sources[1])
	}
	if sources[0].Tag() != "doctolib" || sources[1].Tag() != "clinique" {
		t.Errorf("tags = %q/%q", sources[0].Tag(), sources[1].Tag())
	}
}
