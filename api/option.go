package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type options struct {
	logger          *zap.Logger
	address         string
	mode            string
	shutdownTimeout time.Duration
}

var defaultOptions = options{
	logger:          zap.NewNop(),
	address:         ":3000",
	mode:            gin.ReleaseMode,
	shutdownTimeout: 5 * time.Second,
}

type Option func(opts *options)

func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func WithAddress(addr string) Option {
	return func(opts *options) {
		opts.address = addr
	}
}

// WithMode sets the gin mode: release, debug or test.
func WithMode(mode string) Option {
	return func(opts *options) {
		opts.mode = mode
	}
}
