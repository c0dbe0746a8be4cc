// Package venues holds the per-venue scrapers for the sites that publish
// their programme as static or scroll-rendered HTML.
//
// Unlike the bilietai aggregator these sites carry no structured metadata,
// so each scraper anchors on the one stable thing its markup offers,
// usually date-shaped text nodes, and walks the surrounding document for
// the title, time, and link. There is deliberately no shared extraction
// framework; each routine matches its site and nothing else.
package venues
