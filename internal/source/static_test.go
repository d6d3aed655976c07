package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/mbriand/rdvwatch/internal/config"
)

const listingHTML = `<!DOCTYPE html>
<html><body>
<article>
  <a href="/dermatologue/toulouse/dr-dupont">Dr. Dupont</a>
  <p>Prochain RDV le 5 mars 2025</p>
</article>
<article>
  <a href="/dermatologue/toulouse/dr-martin">Dr.
Martin</a>
  <p>Disponibilités le 6 mars 2025</p>
</article>
<a href="/dermatologue/paris/dr-orphelin">Dr. Orphelin</a>
<article>
  <a href="/autre/lien">Autre lien</a>
</article>
</body></html>`

func testSite(url string) config.Site {
	return config.Site{
		Tag:          "clinique",
		URL:          url,
		BaseURL:      "https://clinique.example.fr",
		LinkSelector: "a[href*='/dermatologue/']",
		Render:       config.RenderStatic,
	}
}

func TestStaticSource_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	src := NewStaticSource(testSite(server.URL))
	cards, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	// Dr. Orphelin has no ancestor container and is dropped; the selector
	// already excludes the non-dermatologue link.
	if len(cards) != 2 {
		t.Fatalf("Fetch() returned %d cards, want 2: %+v", len(cards), cards)
	}

	first := cards[0]
	if first.DisplayText != "Dr. Dupont" {
		t.Errorf("DisplayText = %q, want Dr. Dupont", first.DisplayText)
	}
	if first.Href != "/dermatologue/toulouse/dr-dupont" {
		t.Errorf("Href = %q", first.Href)
	}
	if first.ContainerText != "Dr. Dupont Prochain RDV le 5 mars 2025" {
		t.Errorf("ContainerText = %q, want flattened card text", first.ContainerText)
	}
	if first.SourceTag != "clinique" || first.BaseURL != "https://clinique.example.fr" {
		t.Errorf("card tagging = %q/%q", first.SourceTag, first.BaseURL)
	}

	// Newlines inside the link text are flattened too via the container.
	if cards[1].ContainerText != "Dr. Martin Disponibilités le 6 mars 2025" {
		t.Errorf("ContainerText = %q", cards[1].ContainerText)
	}
}

func TestStaticSource_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		w.Write([]byte(listingHTML))
	}))
	defer server.Close()

	src := NewStaticSource(testSite(server.URL))
	cards, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server called %d times, want 2", calls.Load())
	}
	if len(cards) != 2 {
		t.Errorf("Fetch() returned %d cards, want 2", len(cards))
	}
}

func TestStaticSource_NotFoundIsPermanent(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	src := NewStaticSource(testSite(server.URL))
	if _, err := src.Fetch(context.Background()); err == nil {
		t.Fatal("Fetch() expected error on 404")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1 (no retries on 404)", calls.Load())
	}
}

func TestFlattenText(t *testing.T) {
	in := "Dr. Dupont\n  Prochain RDV\nle 5 mars 2025  "
	want := "Dr. Dupont Prochain RDV le 5 mars 2025"
	if got := flattenText(in); got != want {
		t.Errorf("flattenText(%q) = %q, want %q", in, got, want)
	}
}
