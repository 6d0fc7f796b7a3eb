package render

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	pw "github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// annotateScript copies the computed background of every element matching
// the selector argument into ComputedBackgroundAttr.
const annotateScript = `(selector) => {
	document.querySelectorAll(selector).forEach((el) => {
		el.setAttribute("` + ComputedBackgroundAttr + `", window.getComputedStyle(el).backgroundColor);
	});
}`

// BrowserRenderer drives a headless Chromium. Every Load owns its own
// driver, browser and page and releases them before returning.
type BrowserRenderer struct {
	options
}

func NewBrowserRenderer(opts ...Option) *BrowserRenderer {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	options.resolveProxy()
	return &BrowserRenderer{options: options}
}

// launchProxy asks the proxy func for the server to use for rawURL.
func (b *BrowserRenderer) launchProxy(rawURL string) (*pw.Proxy, error) {
	if b.proxy == nil {
		return nil, nil
	}
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	u, err := b.proxy(req)
	if err != nil || u == nil {
		return nil, err
	}
	return &pw.Proxy{Server: u.String()}, nil
}

func (b *BrowserRenderer) Load(ctx context.Context, t Target) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, &NavigationError{URL: t.URL, Err: err}
	}

	driver, err := pw.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	defer func() {
		if err := driver.Stop(); err != nil {
			b.logger.Warn("stop playwright failed", zap.Error(err))
		}
	}()

	launch := pw.BrowserTypeLaunchOptions{
		Headless: pw.Bool(b.headless),
		Args:     b.args,
	}
	if launch.Proxy, err = b.launchProxy(t.URL); err != nil {
		return nil, &NavigationError{URL: t.URL, Err: fmt.Errorf("proxy: %w", err)}
	}
	browser, err := driver.Chromium.Launch(launch)
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	var pageOpts pw.BrowserNewPageOptions
	if b.userAgent != nil {
		pageOpts.UserAgent = pw.String(b.userAgent())
	}
	page, err := browser.NewPage(pageOpts)
	if err != nil {
		return nil, fmt.Errorf("new page: %w", err)
	}
	defer page.Close()

	// Close the page when the caller gives up so pending waits return.
	stop := context.AfterFunc(ctx, func() { page.Close() })
	defer stop()

	navTimeout := t.NavTimeout
	if navTimeout <= 0 {
		navTimeout = b.timeout
	}
	b.logger.Debug("navigate", zap.String("url", t.URL))
	resp, err := page.Goto(t.URL, pw.PageGotoOptions{
		WaitUntil: pw.WaitUntilStateNetworkidle,
		Timeout:   pw.Float(millis(navTimeout)),
	})
	if err != nil {
		return nil, &NavigationError{URL: t.URL, Err: err}
	}
	if resp != nil && resp.Status() >= 400 {
		return nil, &NavigationError{URL: t.URL, Err: fmt.Errorf("error status code:%d", resp.Status())}
	}

	if t.ReadySelector != "" {
		err = page.Locator(t.ReadySelector).First().WaitFor(pw.LocatorWaitForOptions{
			Timeout: pw.Float(millis(t.SelectorTimeout)),
		})
		if errors.Is(err, pw.ErrTimeout) {
			return nil, &SelectorTimeoutError{URL: t.URL, Selector: t.ReadySelector, Timeout: t.SelectorTimeout}
		}
		if err != nil {
			return nil, &NavigationError{URL: t.URL, Err: err}
		}
	}

	if t.Annotate != "" {
		if _, err := page.Evaluate(annotateScript, t.Annotate); err != nil {
			b.logger.Warn("annotate computed styles failed", zap.String("url", t.URL), zap.Error(err))
		}
	}

	content, err := page.Content()
	if err != nil {
		return nil, &NavigationError{URL: t.URL, Err: err}
	}
	return goquery.NewDocumentFromReader(strings.NewReader(content))
}

func millis(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}
