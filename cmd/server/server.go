package server

import (
	"context"
	"errors"

	"github.com/mylucky2d3d/crawler/api"
	"github.com/mylucky2d3d/crawler/cmd/setup"
	"github.com/mylucky2d3d/crawler/config"
	"github.com/mylucky2d3d/crawler/engine"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var HTTPListenAddress string

var ServerCmd = &cobra.Command{
	Use:   "server",
	Short: "run the scheduler and the query API.",
	Long:  "scrape every dataset once a minute and serve the stored documents over HTTP.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Flag("config").Value.String())
		if err != nil {
			return err
		}
		if HTTPListenAddress != "" {
			cfg.Server.Address = HTTPListenAddress
		}
		return Run(cmd.Context(), cfg)
	},
}

func init() {
	ServerCmd.Flags().StringVar(
		&HTTPListenAddress, "http", "", "set HTTP listen address, overrides server.address")
}

// Run blocks until ctx is cancelled or the HTTP server fails.
func Run(ctx context.Context, cfg *config.Config) error {
	logger, closer, err := setup.Logger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()
	defer logger.Sync()
	logger.Info("log init end")

	renderer, err := setup.Renderer(cfg, logger)
	if err != nil {
		return err
	}
	store, err := setup.Storage(cfg, logger)
	if err != nil {
		logger.Error("init storage failed", zap.Error(err))
		return err
	}
	tasks, err := setup.Tasks(cfg, logger)
	if err != nil {
		logger.Error("init tasks failed", zap.Error(err))
		return err
	}

	scheduler, err := engine.NewScheduler(
		engine.WithLogger(logger.Named("engine")),
		engine.WithRenderer(renderer),
		engine.WithStorage(store),
		engine.WithTasks(tasks...),
		engine.WithInterval(cfg.Scheduler.Interval),
		engine.WithRunOnStart(cfg.Scheduler.RunOnStart),
	)
	if err != nil {
		return err
	}

	httpServer := api.New(store,
		api.WithLogger(logger.Named("api")),
		api.WithAddress(cfg.Server.Address),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	schedDone := make(chan error, 1)
	go func() { schedDone <- scheduler.Run(ctx) }()

	err = httpServer.Run(ctx)
	cancel()
	if schedErr := <-schedDone; schedErr != nil {
		err = errors.Join(err, schedErr)
	}
	if err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
	return err
}
