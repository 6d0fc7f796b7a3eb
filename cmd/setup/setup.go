// Package setup turns a loaded configuration into the running components.
package setup

import (
	"fmt"
	"io"

	"github.com/mylucky2d3d/crawler/config"
	"github.com/mylucky2d3d/crawler/extract"
	"github.com/mylucky2d3d/crawler/log"
	"github.com/mylucky2d3d/crawler/render"
	"github.com/mylucky2d3d/crawler/spider"
	"github.com/mylucky2d3d/crawler/storage"
	"github.com/mylucky2d3d/crawler/storage/filestorage"
	"github.com/mylucky2d3d/crawler/storage/sqlstorage"
	"github.com/mylucky2d3d/crawler/tasklib"
	"go.uber.org/zap"
)

// Logger builds the process logger and installs it as the zap global.
func Logger(cfg *config.Config) (*zap.Logger, io.Closer, error) {
	logger, closer, err := log.New(cfg.LogLevel, cfg.LogFile, cfg.LogStderr)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	zap.ReplaceGlobals(logger)
	return logger, closer, nil
}

func Renderer(cfg *config.Config, logger *zap.Logger) (render.Renderer, error) {
	logger.Info("renderer",
		zap.String("type", cfg.Renderer.Type),
		zap.Strings("proxy", cfg.Renderer.Proxy),
		zap.Duration("timeout", cfg.Renderer.Timeout))

	return render.New(render.Type(cfg.Renderer.Type),
		render.WithLogger(logger.Named("render")),
		render.WithHeadless(cfg.Renderer.Headless),
		render.WithArgs(cfg.Renderer.Args...),
		render.WithProxyURLs(cfg.Renderer.Proxy...),
		render.WithTimeout(cfg.Renderer.Timeout),
	)
}

func Storage(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Storage.Type {
	case "mysql":
		s, err := sqlstorage.New(
			sqlstorage.WithSQLURL(cfg.Storage.SQLURL),
			sqlstorage.WithMaxConns(cfg.Storage.MaxConns),
			sqlstorage.WithLogger(logger.Named("sqlDB")),
		)
		if err != nil {
			return nil, fmt.Errorf("create sqlstorage: %w", err)
		}
		logger.Info("start mysql storage")
		return s, nil
	default:
		s, err := filestorage.New(
			filestorage.WithDir(cfg.Storage.Dir),
			filestorage.WithLogger(logger.Named("storage")),
		)
		if err != nil {
			return nil, fmt.Errorf("create file storage: %w", err)
		}
		logger.Info("start file storage", zap.String("dir", cfg.Storage.Dir))
		return s, nil
	}
}

func Tasks(cfg *config.Config, logger *zap.Logger) ([]*spider.Task, error) {
	classifier, err := extract.NewColorClassifier(extract.DefaultMarker, render.ComputedBackgroundAttr)
	if err != nil {
		return nil, err
	}
	return tasklib.Build(logger.Named("task"), classifier, cfg.Tasks)
}
