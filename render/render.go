package render

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ComputedBackgroundAttr is set on annotated elements by renderers that can
// compute styles.
const ComputedBackgroundAttr = "data-computed-background"

type Target struct {
	URL             string
	ReadySelector   string // empty means do not wait for a marker
	NavTimeout      time.Duration
	SelectorTimeout time.Duration
	Annotate        string // elements whose computed background is recorded
}

// Renderer produces a fully rendered, queryable document.
type Renderer interface {
	Load(ctx context.Context, t Target) (*goquery.Document, error)
}

type Type string

const (
	BrowserType Type = "browser"
	StaticType  Type = "static"
)

type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigate %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

type SelectorTimeoutError struct {
	URL      string
	Selector string
	Timeout  time.Duration
}

func (e *SelectorTimeoutError) Error() string {
	return fmt.Sprintf("selector %q not ready on %s after %v", e.Selector, e.URL, e.Timeout)
}

// New builds the renderer named by typ.
func New(typ Type, opts ...Option) (Renderer, error) {
	switch typ {
	case BrowserType, "":
		return NewBrowserRenderer(opts...), nil
	case StaticType:
		return NewStaticRenderer(opts...), nil
	}
	return nil, fmt.Errorf("unknown renderer type %q", typ)
}
