package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/ecoshop/backend/internal/domain"
	"github.com/ecoshop/backend/internal/infrastructure/logging"
)

// BrowserFetcher renders product pages in headless Chrome before extraction.
// It serves shops that build their product markup with JavaScript.
type BrowserFetcher struct {
	allocCtx      context.Context
	cancelAlloc   context.CancelFunc
	browserCtx    context.Context
	cancelBrowser context.CancelFunc
	timeout       time.Duration
	logger        zerolog.Logger

	mu      sync.Mutex
	started bool
}

// NewBrowserFetcher prepares one Chrome instance shared by every fetch. Chrome is
// launched on the first fetch. Call Close to stop it.
func NewBrowserFetcher(timeout time.Duration, logger zerolog.Logger) *BrowserFetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(userAgent),
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	return &BrowserFetcher{
		allocCtx:      allocCtx,
		cancelAlloc:   cancelAlloc,
		browserCtx:    browserCtx,
		cancelBrowser: cancelBrowser,
		timeout:       timeout,
		logger:        logging.Component(logger, "scraper").With().Str("renderer", "browser").Logger(),
	}
}

// Fetch opens pageURL in a new tab, waits for the body and extracts the rendered HTML
func (b *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (*domain.PageData, error) {
	tabCtx, cancelTab, err := b.newTab(ctx)
	if err != nil {
		return nil, err
	}
	defer cancelTab()

	runCtx, cancelRun := context.WithTimeout(tabCtx, b.timeout)
	defer cancelRun()

	var html string
	err = chromedp.Run(runCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		b.logger.Debug().Err(err).Str("url", pageURL).Msg("browser fetch failed")
		return nil, fmt.Errorf("%w: render %s: %v", domain.ErrUpstreamFailure, pageURL, err)
	}

	return ExtractProductData([]byte(html), pageURL)
}

// newTab opens a tab in the shared browser, launching it first if needed.
// Cancelling the returned func closes the tab only.
func (b *BrowserFetcher) newTab(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := b.start(); err != nil {
		return nil, nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)

	// Tabs hang off the browser, so the caller's cancellation is forwarded explicitly
	stop := context.AfterFunc(ctx, cancelTab)
	return tabCtx, func() {
		stop()
		cancelTab()
	}, nil
}

// start launches Chrome once. A failed launch is retried by the next fetch.
func (b *BrowserFetcher) start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.started {
		return nil
	}
	if err := chromedp.Run(b.browserCtx); err != nil {
		return fmt.Errorf("%w: start browser: %v", domain.ErrUpstreamFailure, err)
	}
	b.started = true
	b.logger.Debug().Msg("browser started")
	return nil
}

// Close shuts the browser down
func (b *BrowserFetcher) Close() error {
	b.cancelBrowser()
	b.cancelAlloc()
	return nil
}
