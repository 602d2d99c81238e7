// cmd/fjagectl/root.go
// Root command for the `fjagectl` CLI. It wires common flags, global
// initialisation (logger, config file) and adds top-level sub-commands
// located in sibling files (connect.go, send.go, subscribe.go, record.go,
// replay.go, version.go).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nsilva/fjagego/internal/logging"
	"github.com/nsilva/fjagego/pkg/version"
)

var (
	cfgFile string
	logJSON bool

	rootCmd = &cobra.Command{
		Use:   "fjagectl",
		Short: "fjagego – client for fjåge/UnetStack agent platforms",
		Long:  `fjagectl connects to a fjåge agent platform gateway port and lets you send, request and subscribe to messages from the command line.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logging.Initialised() {
				return nil
			}
			return initLogger()
		},
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file (YAML/TOML/JSON)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Enable JSON log output (default is human-friendly console)")

	rootCmd.AddCommand(newConnectCmd())
	rootCmd.AddCommand(newSendCmd())
	rootCmd.AddCommand(newSubscribeCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// Execute is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "fjagectl"))
		}
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("FJAGE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		logging.Sugar().Infof("Using config file: %s", viper.ConfigFileUsed())
	}
}

func initLogger() error {
	cfg := zap.NewProductionConfig()
	if !logJSON {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zap.TimeEncoder(func(t time.Time, enc zap.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(time.RFC3339))
	})

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	logging.Set(logger)
	logging.Sugar().Infow("fjagectl starting", "go_version", runtime.Version(), "version", version.String())
	return nil
}
