// Package jsonld extracts schema.org Event objects from the JSON-LD blocks
// embedded in rendered pages.
//
// Payloads in the wild are messy: a block may hold a single object or an
// array, nested fields may be missing or carry the wrong JSON type, and
// whole blocks may be truncated by the renderer. Decoding is therefore
// tolerant throughout: a malformed block or element is skipped, and a nested
// field of an unexpected shape reads as absent. Extraction never fails a
// page.
package jsonld

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const scriptSelector = `script[type="application/ld+json"]`

// Event is the decoded subset of a schema.org Event payload the harvester
// cares about. Absent fields are zero values.
type Event struct {
	Type      string   `json:"@type"`
	Name      string   `json:"name"`
	StartDate string   `json:"startDate"`
	Location  Location `json:"location"`
	Offers    Offers   `json:"offers"`
}

// Location is an event's venue. Sources sometimes publish the location as a
// plain string or an array instead of an object; those shapes decode as an
// absent location rather than an error.
type Location struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// Address holds the nested postal address fields.
type Address struct {
	AddressLocality string `json:"addressLocality"`
}

// Offers carries the ticket offer attached to an event.
type Offers struct {
	URL string `json:"url"`
}

func (l *Location) UnmarshalJSON(data []byte) error {
	type plain Location
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*l = Location{}
		return nil
	}
	*l = Location(p)
	return nil
}

func (a *Address) UnmarshalJSON(data []byte) error {
	type plain Address
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*a = Address{}
		return nil
	}
	*a = Address(p)
	return nil
}

func (o *Offers) UnmarshalJSON(data []byte) error {
	type plain Offers
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		*o = Offers{}
		return nil
	}
	*o = Offers(p)
	return nil
}

// Block pairs a decoded Event with the script element it came from, so the
// caller can inspect the block's surroundings in the document.
type Block struct {
	Selection *goquery.Selection
	Event     Event
}

// Events scans doc for JSON-LD blocks and returns every object whose
// declared type is "Event", in document order. A page may yield zero, one,
// or many blocks.
func Events(doc *goquery.Document) []Block {
	var blocks []Block
	doc.Find(scriptSelector).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		for _, e := range decodePayload(raw) {
			blocks = append(blocks, Block{Selection: sel, Event: e})
		}
	})
	return blocks
}

// decodePayload decodes a block payload holding either one object or an
// array of objects. Elements that fail to decode, or whose type is not
// "Event", are dropped.
func decodePayload(raw string) []Event {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		elems = []json.RawMessage{json.RawMessage(raw)}
	}

	var events []Event
	for _, elem := range elems {
		var e Event
		if err := json.Unmarshal(elem, &e); err != nil {
			continue
		}
		if e.Type != "Event" {
			continue
		}
		events = append(events, e)
	}
	return events
}
