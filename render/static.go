package render

import (
	"bufio"
	"context"
	"fmt"
	"net/http"

	browser "github.com/EDDYCJY/fake-useragent"
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// StaticRenderer fetches the page over plain HTTP. It does not run scripts,
// so computed styles are not available.
type StaticRenderer struct {
	options
	client *http.Client
}

func NewStaticRenderer(opts ...Option) *StaticRenderer {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.userAgent == nil {
		options.userAgent = browser.Random
	}

	options.resolveProxy()

	s := &StaticRenderer{options: options}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if s.proxy != nil {
		transport.Proxy = s.proxy
	}
	s.client = &http.Client{Transport: transport}

	return s
}

func (s *StaticRenderer) Load(ctx context.Context, t Target) (*goquery.Document, error) {
	timeout := t.NavTimeout
	if timeout <= 0 {
		timeout = s.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return nil, &NavigationError{URL: t.URL, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &NavigationError{URL: t.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NavigationError{URL: t.URL, Err: fmt.Errorf("error status code:%d", resp.StatusCode)}
	}

	bodyReader := bufio.NewReader(resp.Body)
	e := DetermineEncoding(bodyReader, resp.Header.Get("Content-Type"))
	doc, err := goquery.NewDocumentFromReader(transform.NewReader(bodyReader, e.NewDecoder()))
	if err != nil {
		return nil, &NavigationError{URL: t.URL, Err: err}
	}

	if t.ReadySelector != "" && doc.Find(t.ReadySelector).Length() == 0 {
		return nil, &SelectorTimeoutError{URL: t.URL, Selector: t.ReadySelector, Timeout: t.SelectorTimeout}
	}
	s.logger.Debug("page loaded", zap.String("url", t.URL))

	return doc, nil
}

// DetermineEncoding picks the charset declared in contentType, falling back
// to sniffing the first KiB of r.
func DetermineEncoding(r *bufio.Reader, contentType string) encoding.Encoding {
	bytes, err := r.Peek(1024)
	if err != nil && len(bytes) == 0 {
		return unicode.UTF8
	}

	e, _, _ := charset.DetermineEncoding(bytes, contentType)

	return e
}
