package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/thomsbg/ripple/internal/config"
	"github.com/thomsbg/ripple/pkg/ripple"
	"github.com/thomsbg/ripple/pkg/server"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		port       int
		host       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a template as a live demo",
		Long: `Serve a template over HTTP with a websocket session per visitor.

The project's ripple.json names the template and optional initial
data. Each connected browser gets its own view; set events from the
console update the model and stream re-rendered frames back.

Examples:
  ripple serve
  ripple serve --port=8080
  ripple serve --config=examples/todo/ripple.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, port, host)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to ripple.json (default: walk up from cwd)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from ripple.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from ripple.json)")

	return cmd
}

func runServe(configPath string, port int, host string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	family, data, err := loadFamily(cfg.TemplatePath(), cfg.DataPath())
	if err != nil {
		return err
	}

	srv := server.New(family, &server.Config{
		Address:          cfg.Address(),
		InitialData:      data,
		FrameInterval:    cfg.FrameInterval(),
		MetricsEnabled:   cfg.Metrics.Enabled,
		MetricsNamespace: cfg.Metrics.Namespace,
	})

	printBanner()
	info("serving %s", cfg.Template)
	info("listening on %s", cfg.URL())
	if cfg.Metrics.Enabled {
		info("metrics on %s/metrics", cfg.URL())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sig:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// loadFamily reads a template file and optional JSON data file.
func loadFamily(templatePath, dataPath string) (*ripple.Family, map[string]any, error) {
	markup, err := os.ReadFile(templatePath)
	if err != nil {
		return nil, nil, err
	}
	family, err := ripple.New(string(markup))
	if err != nil {
		return nil, nil, err
	}

	var data map[string]any
	if dataPath != "" {
		raw, err := os.ReadFile(dataPath)
		if err != nil {
			return nil, nil, err
		}
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, nil, err
		}
	}
	return family, data, nil
}
