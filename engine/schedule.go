package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mylucky2d3d/crawler/generator"
	"github.com/mylucky2d3d/crawler/spider"
	"github.com/mylucky2d3d/crawler/storage"
	"go.uber.org/zap"
)

// Outcome is the result of one dataset within a tick.
type Outcome struct {
	Dataset storage.Dataset
	Records int
	Err     error
}

type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Skipped  bool // another tick was still running
	Outcomes []Outcome
}

func (r Report) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// Ticker is the part of time.Ticker the scheduler needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

func NewTimeTicker(d time.Duration) Ticker { return timeTicker{time.NewTicker(d)} }

// Scheduler runs every task once per interval. A tick that fires while the
// previous one is still running is skipped.
type Scheduler struct {
	options
	running atomic.Bool
	wg      sync.WaitGroup
}

func NewScheduler(opts ...Option) (*Scheduler, error) {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}
	if options.renderer == nil {
		return nil, errors.New("scheduler: no renderer")
	}
	if options.store == nil {
		return nil, errors.New("scheduler: no storage")
	}
	if options.interval <= 0 {
		return nil, fmt.Errorf("scheduler: invalid interval %v", options.interval)
	}

	if options.ids == nil {
		node, err := generator.NewNode()
		if err != nil {
			return nil, fmt.Errorf("scheduler: %w", err)
		}
		options.ids = node
	}

	return &Scheduler{options: options}, nil
}

// Run blocks until ctx is done and in-flight ticks have returned.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		zap.Duration("interval", s.interval),
		zap.Int("tasks", len(s.tasks)),
		zap.Bool("runOnStart", s.runOnStart))

	if s.runOnStart {
		s.dispatch(ctx)
	}

	ticker := s.newTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C():
			s.dispatch(ctx)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.Tick(ctx)
	}()
}

// Tick runs all tasks sequentially. Each dataset succeeds or fails on its own.
func (s *Scheduler) Tick(ctx context.Context) Report {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous run still in progress, tick skipped")
		return Report{Started: s.now(), Finished: s.now(), Skipped: true}
	}
	defer s.running.Store(false)

	report := Report{RunID: s.ids.Generate().String(), Started: s.now()}
	logger := s.logger.With(zap.String("run", report.RunID))
	for _, t := range s.tasks {
		if ctx.Err() != nil {
			report.Outcomes = append(report.Outcomes, Outcome{Dataset: t.Name, Err: ctx.Err()})
			continue
		}
		report.Outcomes = append(report.Outcomes, s.runTask(ctx, logger, t))
	}
	report.Finished = s.now()

	logger.Info("run finished",
		zap.Int("datasets", len(report.Outcomes)),
		zap.Int("failed", len(report.Failed())),
		zap.Duration("took", report.Finished.Sub(report.Started)))

	return report
}

func (s *Scheduler) runTask(ctx context.Context, logger *zap.Logger, t *spider.Task) (o Outcome) {
	o.Dataset = t.Name
	logger = logger.With(zap.String("dataset", string(t.Name)))

	defer func() {
		if err := recover(); err != nil {
			o.Err = fmt.Errorf("panic: %v", err)
			logger.Error("task panicked",
				zap.Any("err", err),
				zap.String("stack", string(debug.Stack())))
		}
	}()

	res, err := t.Run(ctx, s.renderer)
	if err != nil {
		o.Err = err
		logger.Error("scrape failed, keeping previous document", zap.Error(err))
		return o
	}

	doc, err := storage.NewDocument(res.Data, res.Total, s.now())
	if err != nil {
		o.Err = err
		logger.Error("build document failed", zap.Error(err))
		return o
	}
	if err := s.store.Write(ctx, t.Name, doc); err != nil {
		o.Err = err
		logger.Error("save failed", zap.Error(err))
		return o
	}

	o.Records = 1
	if res.Total != nil {
		o.Records = *res.Total
	}
	logger.Info("saved", zap.Int("records", o.Records))
	return o
}
