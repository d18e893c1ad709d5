package main

import (
	"fmt"
	"os"

	"scopecam/internal/config"
	"scopecam/internal/logger"

	"github.com/spf13/cobra"
)

const (
	AppName    = "Scope Camera"
	AppID      = "org.scopecam.app"
	AppVersion = "1.0.0"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		captureDir string
		device     string
		zooms      string
		fullscreen bool
		logLevel   string
		jsonLogs   bool
	)

	cmd := &cobra.Command{
		Use:          "scopecam",
		Short:        "Camera preview and capture with a calibrated scale bar",
		Version:      AppVersion,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			var o config.Overrides
			flags := cmd.Flags()
			if flags.Changed("capture-dir") {
				o.CaptureDir = &captureDir
			}
			if flags.Changed("device") {
				o.Device = &device
			}
			if flags.Changed("zooms") {
				o.Zooms = &zooms
			}
			if flags.Changed("fullscreen") {
				o.Fullscreen = &fullscreen
			}
			if flags.Changed("log-level") {
				o.LogLevel = &logLevel
			}
			if flags.Changed("json-logs") {
				o.JSONLogs = &jsonLogs
			}
			if cfg, err = cfg.Apply(o); err != nil {
				return fmt.Errorf("invalid flags: %w", err)
			}

			log := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.JSONLogs)
			application, err := NewApplication(cfg, log)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}

	cmd.Flags().StringVar(&captureDir, "capture-dir", "", "directory for captured images and calibration.json (default ~/scopecam)")
	cmd.Flags().StringVar(&device, "device", "", "camera device index or path")
	cmd.Flags().StringVar(&zooms, "zooms", "", "comma separated lens zoom factors, e.g. 10,20,50,100")
	cmd.Flags().BoolVar(&fullscreen, "fullscreen", false, "start with a fullscreen preview")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	cmd.Flags().BoolVar(&jsonLogs, "json-logs", false, "log JSON instead of console output")

	return cmd
}
