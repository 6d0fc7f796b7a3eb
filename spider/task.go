package spider

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/mylucky2d3d/crawler/limiter"
	"github.com/mylucky2d3d/crawler/render"
	"github.com/mylucky2d3d/crawler/storage"
)

// Result is what a task hands over for persistence. Total is set for list datasets.
type Result struct {
	Data  any
	Total *int
}

// ParseFunc extracts and normalizes one rendered page.
type ParseFunc func(doc *goquery.Document) (Result, error)

// Task binds one dataset to the page it is scraped from.
type Task struct {
	Options
}

type TaskConfig struct {
	Name            string
	URL             string
	ReadySelector   string
	NavTimeout      int // milliseconds
	SelectorTimeout int // milliseconds
	Limits          []limiter.Config
}

func NewTask(opts ...Option) *Task {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	t := &Task{}
	t.Options = options

	return t
}

func (t *Task) Validate() error {
	if _, err := storage.ParseDataset(string(t.Name)); err != nil {
		return err
	}
	if t.Target.URL == "" {
		return fmt.Errorf("task %s: empty url", t.Name)
	}
	if t.Parse == nil {
		return fmt.Errorf("task %s: no parse func", t.Name)
	}
	return nil
}

// Run renders the task's page and parses it.
func (t *Task) Run(ctx context.Context, r render.Renderer) (Result, error) {
	if r == nil {
		return Result{}, errors.New("no renderer")
	}
	if t.Limit != nil {
		if err := t.Limit.Wait(ctx); err != nil {
			return Result{}, fmt.Errorf("rate limit: %w", err)
		}
	}

	doc, err := r.Load(ctx, t.Target)
	if err != nil {
		return Result{}, err
	}
	t.logger.Debug("page rendered")

	return t.Parse(doc)
}
