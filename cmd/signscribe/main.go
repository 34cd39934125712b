// Command signscribe turns hand-landmark streams into a transcript of signed gestures.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ayusman/signscribe/internal/config"
	"github.com/ayusman/signscribe/internal/logging"
	"github.com/ayusman/signscribe/internal/sign"
	"github.com/ayusman/signscribe/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand.
type options struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "signscribe",
		Short:         "SignScribe - hand gesture transcription",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ./signscribe.yaml or ~/.signscribe/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newClassifyCmd(opts),
		newReplayCmd(opts),
	)
	return root
}

// load reads the configuration and builds the logger it describes.
func (o *options) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		if _, err := logging.ParseLevel(o.logLevel); err != nil {
			return nil, nil, err
		}
		cfg.Log.Level = o.logLevel
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// thresholds returns the persisted calibration if one exists, else the configured one.
func thresholds(cfg *config.Config, st *store.Store, logger *zap.Logger) sign.Thresholds {
	t := cfg.Classifier.Thresholds
	if st == nil {
		return t
	}

	var saved sign.Thresholds
	if err := st.Settings().GetJSON(store.KeyThresholds, &saved); err != nil {
		return t
	}
	if err := saved.Validate(); err != nil {
		logger.Warn("ignoring invalid saved thresholds", zap.Error(err))
		return t
	}
	return saved
}
