package command

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gsml3/internal/config"
	"gsml3/internal/logging"
)

var (
	configFile string
	verbose    bool
	cfg        = config.Default()
	logCloser  io.Closer
)

var root = cobra.Command{
	Use:          "gsml3",
	Short:        "GSM/3GPP Radio Layer 3 codec toolkit",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configFile)
		if err != nil {
			return err
		}
		cfg = c
		logCloser, err = logging.Setup(logrus.StandardLogger(), cfg.Log, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "configuration file, .yaml or .toml")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func Register(sub *cobra.Command) {
	root.AddCommand(sub)
}

func Execute(ctx context.Context) error {
	return root.ExecuteContext(ctx)
}

// Config is the configuration loaded before the running command.
func Config() *config.Config {
	return cfg
}
