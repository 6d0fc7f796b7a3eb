package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mylucky2d3d/crawler/cmd/setup"
	"github.com/mylucky2d3d/crawler/config"
	"github.com/mylucky2d3d/crawler/spider"
	"github.com/mylucky2d3d/crawler/storage"
	"github.com/mylucky2d3d/crawler/view"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataset string
	asJSON  bool
	save    bool
)

var ScrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "scrape once and print the result.",
	Long:  "render, extract and normalize the selected datasets once, print them and optionally save them.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flag("config").Value.String())
		if err != nil {
			return err
		}
		return Run(cmd.Context(), cfg, cmd.OutOrStdout(), Options{Dataset: dataset, JSON: asJSON, Save: save})
	},
}

func init() {
	ScrapeCmd.Flags().StringVar(&dataset, "dataset", "", "only scrape daily, weekly or threeD")
	ScrapeCmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	ScrapeCmd.Flags().BoolVar(&save, "save", false, "write the result to storage")
}

type Options struct {
	Dataset string
	JSON    bool
	Save    bool
}

func Run(ctx context.Context, cfg *config.Config, out io.Writer, opts Options) error {
	logger, closer, err := setup.Logger(logConfig(cfg, opts))
	if err != nil {
		return err
	}
	defer closer.Close()
	defer logger.Sync()

	renderer, err := setup.Renderer(cfg, logger)
	if err != nil {
		return err
	}
	tasks, err := setup.Tasks(cfg, logger)
	if err != nil {
		return err
	}
	tasks, err = selectTasks(tasks, opts.Dataset)
	if err != nil {
		return err
	}

	var store storage.Store
	if opts.Save {
		if store, err = setup.Storage(cfg, logger); err != nil {
			return err
		}
	}

	var errs []error
	for _, t := range tasks {
		res, err := t.Run(ctx, renderer)
		if err != nil {
			logger.Error("scrape failed", zap.String("dataset", string(t.Name)), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", t.Name, err))
			continue
		}
		if err := printResult(out, res.Data, opts.JSON); err != nil {
			errs = append(errs, err)
		}
		if store == nil {
			continue
		}
		doc, err := storage.NewDocument(res.Data, res.Total, time.Now())
		if err == nil {
			err = store.Write(ctx, t.Name, doc)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", t.Name, err))
			continue
		}
		logger.Info("saved", zap.String("dataset", string(t.Name)))
	}
	return errors.Join(errs...)
}

// logConfig moves console logs to stderr when stdout carries JSON.
func logConfig(cfg *config.Config, opts Options) *config.Config {
	if !opts.JSON || cfg.LogStderr {
		return cfg
	}
	c := *cfg
	c.LogStderr = true
	return &c
}

func selectTasks(tasks []*spider.Task, name string) ([]*spider.Task, error) {
	if name == "" {
		return tasks, nil
	}
	d, err := storage.ParseDataset(name)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.Name == d {
			return []*spider.Task{t}, nil
		}
	}
	return nil, fmt.Errorf("dataset %s is not configured", d)
}

func printResult(w io.Writer, data any, asJSON bool) error {
	if !asJSON {
		return view.Any(w, data)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(data)
}
