package venues

import (
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type fakeFetcher struct {
	pages  map[string]string
	errs   map[string]error
	visits map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages:  make(map[string]string),
		errs:   make(map[string]error),
		visits: make(map[string]int),
	}
}

func (f *fakeFetcher) Document(url string) (*goquery.Document, error) {
	f.visits[url]++
	if err := f.errs[url]; err != nil {
		return nil, err
	}
	page, ok := f.pages[url]
	if !ok {
		return nil, errors.New("connection refused")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

type fakeScroller struct {
	page   string
	err    error
	rounds int
}

func (f *fakeScroller) RenderScrolled(url string, rounds int) (string, error) {
	f.rounds = rounds
	if f.err != nil {
		return "", f.err
	}
	return f.page, nil
}

func testClock() time.Time {
	return time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
}

const testStamp = "2025-05-01T12:00:00Z"
