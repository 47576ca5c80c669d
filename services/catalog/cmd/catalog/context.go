package main

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/example/anime-catalog/internal/platform/config"
	"github.com/example/anime-catalog/internal/platform/execlog"
	"github.com/example/anime-catalog/internal/platform/httpclient"
	"github.com/example/anime-catalog/internal/platform/logging"
	"github.com/example/anime-catalog/internal/platform/metrics"
	"github.com/example/anime-catalog/services/catalog/internal/anime"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     config.AppConfig
	configErr  error

	runtimeOnce sync.Once
	runtime     *runtime
	runtimeErr  error
}

// runtime is everything a lookup or the HTTP service needs, built once per
// process after the configuration is known.
type runtime struct {
	cfg     config.AppConfig
	logs    *logging.Registry
	metrics *metrics.Metrics
	catalog *anime.Service
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (config.AppConfig, error) {
	c.configOnce.Do(func() {
		path := ""
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		var err error
		if path == "" {
			c.config, err = config.Load()
		} else {
			c.config, err = config.LoadFile(path)
		}
		if err != nil {
			c.configErr = fmt.Errorf("load config: %w", err)
		}
	})
	return c.config, c.configErr
}

// ensureRuntime initializes logging and wires the catalog service. Log output
// goes to logOut so stdout stays reserved for command results.
func (c *commandContext) ensureRuntime(logOut io.Writer) (*runtime, error) {
	c.runtimeOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.runtimeErr = err
			return
		}

		opts := logging.OptionsFrom(cfg)
		opts.Console = logOut
		logs := logging.New(opts)
		if err := logs.Init(); err != nil {
			c.runtimeErr = fmt.Errorf("init logging: %w", err)
			return
		}
		logging.Install(logs)

		m, err := metrics.New()
		if err != nil {
			c.runtimeErr = err
			return
		}

		client := httpclient.New(cfg.HTTP,
			httpclient.WithAPIKey(cfg.API.Key),
			httpclient.WithMetrics(m),
		)
		c.runtime = &runtime{
			cfg:     cfg,
			logs:    logs,
			metrics: m,
			catalog: anime.New(anime.Options{
				HTTP:    client,
				BaseURL: cfg.API.BaseURL,
				Logger:  logs.Logger("anime"),
				Exec:    execlog.FromSettings(cfg.Log),
			}),
		}
	})
	return c.runtime, c.runtimeErr
}

func (c *commandContext) close() {
	if c.runtime != nil {
		_ = c.runtime.logs.Sync()
	}
}
