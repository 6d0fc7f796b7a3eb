package render

import (
	"time"

	"github.com/mylucky2d3d/crawler/proxy"
	"go.uber.org/zap"
)

type options struct {
	logger    *zap.Logger
	headless  bool
	args      []string
	proxyURLs []string
	proxy     proxy.Func
	timeout   time.Duration
	userAgent func() string
}

var defaultOptions = options{
	logger:   zap.NewNop(),
	headless: true,
	args:     []string{"--no-sandbox", "--disable-setuid-sandbox"},
	timeout:  30 * time.Second,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithHeadless(headless bool) Option {
	return func(opts *options) {
		opts.headless = headless
	}
}

// WithArgs sets the browser launch arguments.
func WithArgs(args ...string) Option {
	return func(opts *options) {
		opts.args = args
	}
}

// WithProxyURLs rotates over the given proxies: per request for the static
// renderer, per Load for the browser renderer. WithProxy takes precedence.
func WithProxyURLs(urls ...string) Option {
	return func(opts *options) {
		opts.proxyURLs = urls
	}
}

func WithProxy(p proxy.Func) Option {
	return func(opts *options) {
		opts.proxy = p
	}
}

// WithTimeout is the fallback when a target carries no navigation timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *options) {
		opts.timeout = timeout
	}
}

// resolveProxy builds the round-robin switcher from proxyURLs unless a proxy
// func was given.
func (o *options) resolveProxy() {
	if o.proxy != nil || len(o.proxyURLs) == 0 {
		return
	}
	p, err := proxy.RoundRobinProxySwitcher(o.proxyURLs...)
	if err != nil {
		o.logger.Error("RoundRobinProxySwitcher failed", zap.Error(err))
		return
	}
	o.proxy = p
}

func WithUserAgent(ua func() string) Option {
	return func(opts *options) {
		opts.userAgent = ua
	}
}
