package bilietai

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func scriptBlock(t *testing.T, doc *goquery.Document) *goquery.Selection {
	t.Helper()
	sel := doc.Find(`script[type="application/ld+json"]`)
	if sel.Length() != 1 {
		t.Fatalf("fixture must hold exactly one block, found %d", sel.Length())
	}
	return sel
}

func TestDetailLink(t *testing.T) {
	tests := []struct {
		href string
		want string
		ok   bool
	}{
		{"/eng/tickets/opera-night-123456", "https://www.bilietai.lt/eng/tickets/opera-night-123456", true},
		{"/lit/tickets/koncertas-42", "https://www.bilietai.lt/lit/tickets/koncertas-42", true},
		{"https://www.bilietai.lt/eng/tickets/show-99#buy", "https://www.bilietai.lt/eng/tickets/show-99", true},
		{"https://bilietai.lt/lit/tickets/show-7", "https://bilietai.lt/lit/tickets/show-7", true},
		{"/eng/news/some-article", "", false},
		{"/eng/tickets/no-numeric-id", "", false},
		{"https://other.example.com/eng/tickets/show-5", "", false},
		{"#", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.href, func(t *testing.T) {
			got, ok := detailLink(tt.href)
			if ok != tt.ok || got != tt.want {
				t.Errorf("detailLink(%q) = (%q, %v), want (%q, %v)", tt.href, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestResolveContainerEnclosingAnchor(t *testing.T) {
	html := `<html><body>
	<a href="/eng/tickets/wrapped-show-100">
	  <script type="application/ld+json">{"@type":"Event","name":"X"}</script>
	</a></body></html>`

	doc := parseDoc(t, html)
	container, link := resolveContainer(scriptBlock(t, doc))

	if link != "https://www.bilietai.lt/eng/tickets/wrapped-show-100" {
		t.Errorf("link = %q", link)
	}
	if container == nil || !container.Is("a") {
		t.Error("container should be the enclosing anchor")
	}
}

func TestResolveContainerAscent(t *testing.T) {
	html := `<html><body>
	<div class="card">
	  <a href="/eng/tickets/sibling-show-200">More</a>
	  <div class="meta">
	    <script type="application/ld+json">{"@type":"Event","name":"X"}</script>
	  </div>
	</div></body></html>`

	doc := parseDoc(t, html)
	container, link := resolveContainer(scriptBlock(t, doc))

	if link != "https://www.bilietai.lt/eng/tickets/sibling-show-200" {
		t.Errorf("link = %q", link)
	}
	if container == nil || !container.Is("div.card") {
		t.Error("container should be the smallest ancestor with a unique detail link")
	}
}

func TestResolveContainerDuplicateLinksCollapse(t *testing.T) {
	// The same detail URL appearing twice under one ancestor still counts
	// as a single candidate.
	html := `<html><body>
	<div class="card">
	  <a href="/eng/tickets/twice-300"><img src="x.jpg"></a>
	  <a href="/eng/tickets/twice-300">Buy</a>
	  <script type="application/ld+json">{"@type":"Event","name":"X"}</script>
	</div></body></html>`

	doc := parseDoc(t, html)
	_, link := resolveContainer(scriptBlock(t, doc))

	if link != "https://www.bilietai.lt/eng/tickets/twice-300" {
		t.Errorf("link = %q", link)
	}
}

func TestResolveContainerAmbiguous(t *testing.T) {
	// Two distinct detail links at every ascent level: unresolvable.
	html := `<html><body>
	<div class="card">
	  <a href="/eng/tickets/first-1">A</a>
	  <a href="/eng/tickets/second-2">B</a>
	  <script type="application/ld+json">{"@type":"Event","name":"X"}</script>
	</div></body></html>`

	doc := parseDoc(t, html)
	container, link := resolveContainer(scriptBlock(t, doc))

	if link != "" || container != nil {
		t.Errorf("expected unresolvable block, got link %q", link)
	}
}

func TestResolveContainerNoLinks(t *testing.T) {
	html := `<html><body><div>
	<script type="application/ld+json">{"@type":"Event","name":"X"}</script>
	</div></body></html>`

	doc := parseDoc(t, html)
	if _, link := resolveContainer(scriptBlock(t, doc)); link != "" {
		t.Errorf("expected empty link, got %q", link)
	}
}

func TestResolveContainerAscentBound(t *testing.T) {
	// The unique link sits eleven parents above the block; the bounded
	// ascent must give up rather than keep climbing.
	var b strings.Builder
	b.WriteString(`<html><body><div class="card"><a href="/eng/tickets/deep-400">Buy</a>`)
	for i := 0; i < 11; i++ {
		b.WriteString("<div>")
	}
	b.WriteString(`<script type="application/ld+json">{"@type":"Event","name":"X"}</script>`)
	for i := 0; i < 11; i++ {
		b.WriteString("</div>")
	}
	b.WriteString(`</div></body></html>`)

	doc := parseDoc(t, b.String())
	if _, link := resolveContainer(scriptBlock(t, doc)); link != "" {
		t.Errorf("expected the ascent bound to fail resolution, got %q", link)
	}
}

func TestResolveContainerWithinBound(t *testing.T) {
	// Nine intermediate levels keep the card inside the ascent bound.
	var b strings.Builder
	b.WriteString(`<html><body><div class="card"><a href="/eng/tickets/deep-500">Buy</a>`)
	for i := 0; i < 9; i++ {
		b.WriteString("<div>")
	}
	b.WriteString(`<script type="application/ld+json">{"@type":"Event","name":"X"}</script>`)
	for i := 0; i < 9; i++ {
		b.WriteString("</div>")
	}
	b.WriteString(`</div></body></html>`)

	doc := parseDoc(t, b.String())
	if _, link := resolveContainer(scriptBlock(t, doc)); link != "https://www.bilietai.lt/eng/tickets/deep-500" {
		t.Errorf("link = %q", link)
	}
}
