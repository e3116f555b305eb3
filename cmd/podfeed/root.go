package main

import (
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nDmitry/podfeed/internal/app"
	"github.com/nDmitry/podfeed/internal/config"
	"github.com/nDmitry/podfeed/internal/entity"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *entity.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

// ensureConfig reads the config once and applies the log level, the flag taking precedence.
func (c *commandContext) ensureConfig() (*entity.Config, error) {
	c.configOnce.Do(func() {
		cfg, err := config.Read(strings.TrimSpace(*c.configFlag))

		if err != nil {
			c.configErr = err
			return
		}

		if lvl := strings.TrimSpace(*c.logLevelFlag); lvl != "" {
			cfg.LogLevel = lvl
		}

		app.SetLevel(cfg.LogLevel)
		c.config = cfg
	})

	return c.config, c.configErr
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:           "podfeed",
		Short:         "Turn a channel's yt-dlp metadata into a podcast feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(newBuildCommand(ctx))
	rootCmd.AddCommand(newFetchCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
