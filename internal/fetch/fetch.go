// Package fetch retrieves static pages for the venue scrapers that do not
// need a browser.
package fetch

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// UserAgent is sent with every request; several venue sites refuse
	// the default Go client string.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	// Timeout bounds a single page fetch.
	Timeout = 30 * time.Second
)

// Client fetches and parses static HTML pages.
type Client struct {
	http *http.Client
}

// New creates a Client with the default timeout.
func New() *Client {
	return &Client{
		http: &http.Client{Timeout: Timeout},
	}
}

// Document fetches url and parses the response body.
func (c *Client) Document(url string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status code %d", url, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}
