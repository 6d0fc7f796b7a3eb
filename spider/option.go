package spider

import (
	"time"

	"github.com/mylucky2d3d/crawler/limiter"
	"github.com/mylucky2d3d/crawler/render"
	"github.com/mylucky2d3d/crawler/storage"
	"go.uber.org/zap"
)

type Options struct {
	Name   storage.Dataset
	Target render.Target
	Limit  limiter.RateLimiter
	Parse  ParseFunc
	logger *zap.Logger
}

var defaultOptions = Options{
	logger: zap.NewNop(),
	Target: render.Target{
		NavTimeout:      30 * time.Second,
		SelectorTimeout: 10 * time.Second,
	},
}

type Option func(opts *Options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *Options) {
		opts.logger = logger
	}
}

func WithName(name storage.Dataset) Option {
	return func(opts *Options) {
		opts.Name = name
	}
}

func WithURL(url string) Option {
	return func(opts *Options) {
		opts.Target.URL = url
	}
}

func WithReadySelector(selector string) Option {
	return func(opts *Options) {
		opts.Target.ReadySelector = selector
	}
}

func WithNavTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		if timeout > 0 {
			opts.Target.NavTimeout = timeout
		}
	}
}

func WithSelectorTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		if timeout > 0 {
			opts.Target.SelectorTimeout = timeout
		}
	}
}

// WithAnnotate records the computed background of matching elements.
func WithAnnotate(selector string) Option {
	return func(opts *Options) {
		opts.Target.Annotate = selector
	}
}

func WithLimit(l limiter.RateLimiter) Option {
	return func(opts *Options) {
		opts.Limit = l
	}
}

func WithParse(f ParseFunc) Option {
	return func(opts *Options) {
		opts.Parse = f
	}
}
