package tasklib

import (
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mylucky2d3d/crawler/extract"
	"github.com/mylucky2d3d/crawler/limiter"
	"github.com/mylucky2d3d/crawler/lottery"
	"github.com/mylucky2d3d/crawler/spider"
	"github.com/mylucky2d3d/crawler/storage"
	"go.uber.org/zap"
)

// DefaultConfigs are the pages of mylucky2d3d.com.
var DefaultConfigs = []spider.TaskConfig{
	{
		Name:            string(storage.Daily),
		URL:             "https://mylucky2d3d.com/",
		ReadySelector:   "#pricing",
		NavTimeout:      30000,
		SelectorTimeout: 10000,
	},
	{
		Name:            string(storage.Weekly),
		URL:             "https://mylucky2d3d.com/2d",
		ReadySelector:   "#pricing",
		NavTimeout:      30000,
		SelectorTimeout: 10000,
	},
	{
		Name:            string(storage.ThreeD),
		URL:             "https://mylucky2d3d.com/3d",
		NavTimeout:      30000,
		SelectorTimeout: 10000,
	},
}

// ParseFuncs returns the extract+normalize step of every dataset.
func ParseFuncs(c extract.Classifier) map[storage.Dataset]spider.ParseFunc {
	daily := extract.NewDaily(c)
	weekly := extract.NewWeekly(c)
	threeD := extract.NewThreeD()

	return map[storage.Dataset]spider.ParseFunc{
		storage.Daily: func(doc *goquery.Document) (spider.Result, error) {
			raw, err := daily.Extract(doc)
			if err != nil {
				return spider.Result{}, err
			}
			rec, err := lottery.NormalizeDaily(raw)
			if err != nil {
				return spider.Result{}, err
			}
			return spider.Result{Data: rec}, nil
		},
		storage.Weekly: func(doc *goquery.Document) (spider.Result, error) {
			raw, err := weekly.Extract(doc)
			if err != nil {
				return spider.Result{}, err
			}
			recs, err := lottery.NormalizeWeekly(raw)
			if err != nil {
				return spider.Result{}, err
			}
			n := len(recs)
			return spider.Result{Data: recs, Total: &n}, nil
		},
		storage.ThreeD: func(doc *goquery.Document) (spider.Result, error) {
			raw, err := threeD.Extract(doc)
			if err != nil {
				return spider.Result{}, err
			}
			recs, err := lottery.NormalizeThreeD(raw)
			if err != nil {
				return spider.Result{}, err
			}
			n := len(recs)
			return spider.Result{Data: recs, Total: &n}, nil
		},
	}
}

// Build turns task configs into runnable tasks. An empty cfgs means DefaultConfigs.
func Build(logger *zap.Logger, c extract.Classifier, cfgs []spider.TaskConfig) ([]*spider.Task, error) {
	if len(cfgs) == 0 {
		cfgs = DefaultConfigs
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	parsers := ParseFuncs(c)

	tasks := make([]*spider.Task, 0, len(cfgs))
	seen := make(map[storage.Dataset]bool, len(cfgs))
	for _, cfg := range cfgs {
		name, err := storage.ParseDataset(cfg.Name)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate task %s", name)
		}
		seen[name] = true

		t := spider.NewTask(
			spider.WithName(name),
			spider.WithURL(cfg.URL),
			spider.WithReadySelector(cfg.ReadySelector),
			spider.WithNavTimeout(time.Duration(cfg.NavTimeout)*time.Millisecond),
			spider.WithSelectorTimeout(time.Duration(cfg.SelectorTimeout)*time.Millisecond),
			spider.WithAnnotate(".feature-card"),
			spider.WithLimit(limiter.FromConfig(cfg.Limits)),
			spider.WithParse(parsers[name]),
			spider.WithLogger(logger.Named(string(name))),
		)
		if err := t.Validate(); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}
