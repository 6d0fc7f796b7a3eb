package engine

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/mylucky2d3d/crawler/render"
	"github.com/mylucky2d3d/crawler/spider"
	"github.com/mylucky2d3d/crawler/storage"
	"go.uber.org/zap"
)

type Option func(opts *options)

type options struct {
	logger     *zap.Logger
	renderer   render.Renderer
	store      storage.Store
	tasks      []*spider.Task
	interval   time.Duration
	runOnStart bool
	now        func() time.Time
	newTicker  func(time.Duration) Ticker
	ids        *snowflake.Node
}

var defaultOptions = options{
	logger:     zap.NewNop(),
	interval:   time.Minute,
	runOnStart: true,
	now:        time.Now,
	newTicker:  NewTimeTicker,
}

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithRenderer(r render.Renderer) Option {
	return func(opts *options) {
		opts.renderer = r
	}
}

func WithStorage(s storage.Store) Option {
	return func(opts *options) {
		opts.store = s
	}
}

func WithTasks(tasks ...*spider.Task) Option {
	return func(opts *options) {
		opts.tasks = tasks
	}
}

func WithInterval(d time.Duration) Option {
	return func(opts *options) {
		opts.interval = d
	}
}

func WithRunOnStart(b bool) Option {
	return func(opts *options) {
		opts.runOnStart = b
	}
}

// WithClock sets the source of lastUpdated.
func WithClock(now func() time.Time) Option {
	return func(opts *options) {
		opts.now = now
	}
}

func WithTicker(f func(time.Duration) Ticker) Option {
	return func(opts *options) {
		opts.newTicker = f
	}
}

// WithIDNode sets the node run ids are drawn from. By default one is
// derived from the host address.
func WithIDNode(n *snowflake.Node) Option {
	return func(opts *options) {
		opts.ids = n
	}
}
