package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/openclaw/go-skills/pkg/logger"
	"github.com/openclaw/go-skills/pkg/presenter"
	"github.com/openclaw/go-skills/pkg/registry"
	"github.com/openclaw/go-skills/pkg/skills"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("SKILLCTL")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillctl")
	viper.AddConfigPath(".")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "skillctl",
	Short: "Run and compose skills from the command line",
	Long:  `skillctl executes registered skills, composes them into sequential pipelines, and inspects their metadata.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Help()
	},
}

var registerBuiltinsOnce sync.Once

// builtinRegistry returns the global registry with every built-in skill
// registered exactly once per process.
func builtinRegistry() *registry.Registry {
	reg := registry.Global()
	registerBuiltinsOnce.Do(func() {
		if err := skills.RegisterBuiltins(reg); err != nil {
			presenter.Error(err, "Failed to register built-in skills")
			os.Exit(1)
		}
	})
	return reg
}

func main() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (json, text)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	var tracingShutdown func(context.Context) error
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		logger.SetLogLevel(viper.GetString("log_level"))
		logger.SetLogFormat(viper.GetString("log_format"))

		shutdown, err := initTracing(cmd.Context())
		if err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to initialize tracing")
			return
		}
		tracingShutdown = shutdown
	}

	ctx := context.Background()
	err := rootCmd.ExecuteContext(ctx)

	if tracingShutdown != nil {
		if shutdownErr := tracingShutdown(ctx); shutdownErr != nil {
			logger.G(ctx).WithError(shutdownErr).Debug("failed to shut down tracing")
		}
	}

	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
