// Package source implements the page-snapshot providers that feed the
// extraction pipeline with raw cards.
//
// Two rendering modes exist: BrowserSource drives headless Chrome via rod
// for listings populated by JavaScript (cookie consent, lazy-load
// scrolling), and StaticSource does a plain HTTP GET with goquery parsing
// for server-rendered pages. FetchAll runs all configured sources
// concurrently and joins their results only after each completes in full.
package source
