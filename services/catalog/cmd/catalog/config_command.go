package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type configView struct {
	AppName            string `json:"app_name"`
	Debug              bool   `json:"debug"`
	HTTPAddr           string `json:"http_addr"`
	CORSAllowedOrigins string `json:"cors_allowed_origins"`
	HTTPTimeout        string `json:"http_timeout"`
	HTTPConnectTimeout string `json:"http_connect_timeout"`
	HTTPMaxConnections int    `json:"http_max_connections"`
	HTTP2Enabled       bool   `json:"http2_enabled"`
	APIBaseURL         string `json:"api_base_url"`
	APIKey             string `json:"api_key"`
	APIUsername        string `json:"api_username"`
	LogLevel           string `json:"log_level"`
	LogFilePath        string `json:"log_file_path"`
	LogIncludeArgs     bool   `json:"log_include_args"`
	LogIncludeResult   bool   `json:"log_include_result"`
	LogErrors          bool   `json:"log_errors"`
	NATSURL            string `json:"nats_url"`
}

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg = cfg.Redacted()
			return writeJSON(cmd, configView{
				AppName:            cfg.AppName,
				Debug:              cfg.Debug,
				HTTPAddr:           cfg.Server.Addr,
				CORSAllowedOrigins: cfg.Server.CORSAllowedOrigins,
				HTTPTimeout:        cfg.HTTP.Timeout.String(),
				HTTPConnectTimeout: cfg.HTTP.ConnectTimeout.String(),
				HTTPMaxConnections: cfg.HTTP.MaxConnections,
				HTTP2Enabled:       cfg.HTTP.HTTP2Enabled,
				APIBaseURL:         cfg.API.BaseURL,
				APIKey:             cfg.API.Key,
				APIUsername:        cfg.API.Username,
				LogLevel:           cfg.Log.Level,
				LogFilePath:        cfg.Log.FilePath,
				LogIncludeArgs:     cfg.Log.IncludeArgs,
				LogIncludeResult:   cfg.Log.IncludeResult,
				LogErrors:          cfg.Log.Errors,
				NATSURL:            cfg.NATS.URL,
			})
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration valid")
			return nil
		},
	})

	return configCmd
}
