package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-micro/plugins/v4/config/encoder/toml"
	"github.com/joho/godotenv"
	"github.com/mylucky2d3d/crawler/spider"
	"github.com/mylucky2d3d/crawler/tasklib"
	"go-micro.dev/v4/config"
	"go-micro.dev/v4/config/reader"
	"go-micro.dev/v4/config/reader/json"
	"go-micro.dev/v4/config/source"
	"go-micro.dev/v4/config/source/env"
	"go-micro.dev/v4/config/source/file"
)

// EnvPrefix prefixes environment overrides, e.g. LOTTERY_SERVER_ADDRESS.
const EnvPrefix = "LOTTERY"

type Config struct {
	LogLevel  string
	LogFile   string
	LogStderr bool
	Server    Server
	Storage   Storage
	Scheduler Scheduler
	Renderer  Renderer
	Tasks     []spider.TaskConfig
}

type Server struct {
	Address string
}

type Storage struct {
	Type     string // file or mysql
	Dir      string
	SQLURL   string
	MaxConns int
}

type Scheduler struct {
	Interval   time.Duration
	RunOnStart bool
}

type Renderer struct {
	Type     string // browser or static
	Headless bool
	Args     []string
	Proxy    []string
	Timeout  time.Duration
}

// Load reads the TOML file at path, if it exists, then applies environment
// overrides. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	enc := toml.NewEncoder()
	cfg, err := config.NewConfig(config.WithReader(json.NewReader(reader.WithEncoder(enc))))
	if err != nil {
		return nil, err
	}

	var sources []source.Source
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			sources = append(sources, file.NewSource(
				file.WithPath(path),
				source.WithEncoder(enc),
			))
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	sources = append(sources, env.NewSource(env.WithStrippedPrefix(EnvPrefix)))

	if err := cfg.Load(sources...); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	defer cfg.Close()

	return fromValues(cfg)
}

func fromValues(cfg config.Config) (*Config, error) {
	c := &Config{
		LogLevel:  cfg.Get("loglevel").String("INFO"),
		LogFile:   cfg.Get("log", "file").String(""),
		LogStderr: cfg.Get("log", "stderr").Bool(false),
		Server: Server{
			Address: cfg.Get("server", "address").String(":3000"),
		},
		Storage: Storage{
			Type:     cfg.Get("storage", "type").String("file"),
			Dir:      cfg.Get("storage", "dir").String("data"),
			SQLURL:   cfg.Get("storage", "sqlurl").String(""),
			MaxConns: cfg.Get("storage", "maxconns").Int(16),
		},
		Scheduler: Scheduler{
			Interval:   time.Duration(cfg.Get("scheduler", "interval").Int(60000)) * time.Millisecond,
			RunOnStart: cfg.Get("scheduler", "runonstart").Bool(true),
		},
		Renderer: Renderer{
			Type:     cfg.Get("renderer", "type").String("browser"),
			Headless: cfg.Get("renderer", "headless").Bool(true),
			Args:     cfg.Get("renderer", "args").StringSlice([]string{"--no-sandbox", "--disable-setuid-sandbox"}),
			Proxy:    cfg.Get("renderer", "proxy").StringSlice(nil),
			Timeout:  time.Duration(cfg.Get("renderer", "timeout").Int(30000)) * time.Millisecond,
		},
	}

	if err := cfg.Get("tasks").Scan(&c.Tasks); err != nil {
		return nil, fmt.Errorf("parse tasks: %w", err)
	}
	if len(c.Tasks) == 0 {
		c.Tasks = append(c.Tasks, tasklib.DefaultConfigs...)
	}

	return c, c.Validate()
}

func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "file":
		if c.Storage.Dir == "" {
			return errors.New("storage.dir is required for file storage")
		}
	case "mysql":
		if c.Storage.SQLURL == "" {
			return errors.New("storage.sqlurl is required for mysql storage")
		}
		if c.Storage.MaxConns <= 0 {
			return fmt.Errorf("invalid storage.maxconns %d", c.Storage.MaxConns)
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("invalid scheduler interval %v", c.Scheduler.Interval)
	}
	return nil
}
