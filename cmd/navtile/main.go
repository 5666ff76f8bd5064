package main

import (
	"fmt"
	"os"

	"github.com/gorustyt/navtile/common/config"
	"github.com/gorustyt/navtile/common/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := RootCmd().Execute(); err != nil {
		logger.Error("navtile failed", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func RootCmd() *cobra.Command {
	var (
		configFile string
		logLevel   string
	)
	root := &cobra.Command{
		Use:           "navtile",
		Short:         "navigation mesh tile builder",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "overrides logging.level")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
		return cfg, nil
	}
	root.AddCommand(BuildCmd(load), InspectCmd(load))
	return root
}
