// Package render drives the headless browser session used for pages that
// only materialize their listings client-side.
//
// One session is opened per harvest run, reused sequentially for every page
// navigation, and closed once at the end. Failing to establish the session
// is the only fatal error in the harvester; a failed navigation just skips
// that page.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// DefaultTimeout bounds a single page navigation.
	DefaultTimeout = 90 * time.Second

	// UserAgent presented by the browser session.
	UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

	scrollScript = `window.scrollBy(0, 5000);`
	scrollPause  = time.Second
)

// Options configures a browser session.
type Options struct {
	Headless bool
	Timeout  time.Duration
}

// Session is a reusable headless-Chrome rendering session.
type Session struct {
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	timeout       time.Duration
}

// NewSession launches the browser. The returned session must be closed with
// Close once, after all navigations.
func NewSession(opts Options) (*Session, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so a broken environment fails the run
	// up front instead of on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser session: %w", err)
	}

	return &Session{
		allocCtx:      allocCtx,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		timeout:       timeout,
	}, nil
}

// Render navigates to url and returns the rendered document HTML. The
// navigation is bounded by the session timeout; on timeout or navigation
// error the page is abandoned with no retry.
func (s *Session) Render(url string) (string, error) {
	ctx, cancel := context.WithTimeout(s.browserCtx, s.timeout)
	defer cancel()

	var html string
	err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return html, nil
}

// RenderScrolled navigates to url, scrolls the page the given number of
// rounds to trigger lazy loading, and returns the settled document HTML.
func (s *Session) RenderScrolled(url string, rounds int) (string, error) {
	ctx, cancel := context.WithTimeout(s.browserCtx, s.timeout)
	defer cancel()

	tasks := chromedp.Tasks{
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			for i := 0; i < rounds; i++ {
				if err := chromedp.Evaluate(scrollScript, nil).Do(ctx); err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(scrollPause):
				}
			}
			return nil
		}),
	}

	var html string
	tasks = append(tasks, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(ctx, tasks); err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}
	return html, nil
}

// Close releases the browser session. Safe to call exactly once.
func (s *Session) Close() error {
	s.browserCancel()
	s.allocCancel()
	return nil
}
