// Package bilietai scrapes event listings from bilietai.lt, the primary
// ticketing aggregator.
//
// The site embeds one JSON-LD Event block per listing card but never
// annotates which link belongs to which block, so each block's event-detail
// link is recovered by ascending the card's ancestors until the set of
// detail-shaped links beneath an ancestor collapses to exactly one URL.
//
// Some listings are series placeholders standing in for several dated
// occurrences. The crawl therefore runs in two phases: listing pages are
// walked first, routing each record either to the output or to a pending
// series set; then every pending series page is visited once and replaced by
// its concrete occurrences, or by the cached placeholder when expansion
// yields nothing. Expanded occurrences are never re-classified, so the crawl
// depth is bounded at one level.
package bilietai
