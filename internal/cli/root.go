// Package cli implements the tpool command, a driver that exercises the
// thread pool from the command line.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lnquy/threadpool"
	"github.com/lnquy/threadpool/internal/config"
)

type options struct {
	v       *viper.Viper
	log     *logrus.Logger
	cfgFile string
}

// Execute runs the root command with the provided context.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd creates the tpool command tree.
func NewRootCmd() *cobra.Command {
	o := &options{
		v:   viper.New(),
		log: logrus.New(),
	}
	config.SetDefaults(o.v)

	rootCmd := &cobra.Command{
		Use:   "tpool",
		Short: "tpool - drive a fixed or elastic thread pool",
		Long: `tpool submits demo workloads to a thread pool and reports how the
pool behaved: results, worker counts and queue statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", "", "config file (default is $HOME/.tpool.yaml)")
	flags.String("mode", "fixed", "pool mode (fixed, cached)")
	flags.IntP("workers", "w", 0, "initial number of workers (default GOMAXPROCS)")
	flags.Int("queue-capacity", 1024, "maximum number of queued tasks")
	flags.Int("max-workers", 1024, "worker ceiling in cached mode")
	flags.Duration("idle-timeout", 60*time.Second, "idle time before a cached worker retires")
	flags.Duration("submit-timeout", time.Second, "how long submit waits for queue space")
	flags.BoolP("verbose", "v", false, "verbose output with debug logging")
	flags.String("log-format", "text", "log format (text, json)")
	flags.Bool("no-color", false, "disable colored output")

	for key, flag := range map[string]string{
		config.KeyMode:          "mode",
		config.KeyInitWorkers:   "workers",
		config.KeyQueueCapacity: "queue-capacity",
		config.KeyMaxWorkers:    "max-workers",
		config.KeyIdleTimeout:   "idle-timeout",
		config.KeySubmitTimeout: "submit-timeout",
	} {
		_ = o.v.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(newSumCmd(o))
	rootCmd.AddCommand(newBurstCmd(o))
	rootCmd.AddCommand(newConfigCmd(o))

	return rootCmd
}

func (o *options) init(cmd *cobra.Command) error {
	if err := config.ReadFile(o.v, o.cfgFile); err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	format, _ := cmd.Flags().GetString("log-format")
	noColor, _ := cmd.Flags().GetBool("no-color")

	o.log.SetOutput(cmd.ErrOrStderr())
	o.log.SetLevel(logrus.InfoLevel)
	if verbose {
		o.log.SetLevel(logrus.DebugLevel)
	}
	switch format {
	case "json":
		o.log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		o.log.SetFormatter(&logrus.TextFormatter{DisableColors: noColor, FullTimestamp: true})
	default:
		return errors.Errorf("unknown log format %q", format)
	}
	if noColor {
		color.NoColor = true
	}

	if verbose && o.v.ConfigFileUsed() != "" {
		o.log.Debugf("loaded configuration from %s", o.v.ConfigFileUsed())
	}
	return nil
}

// newPool builds a pool from the resolved configuration. override may
// adjust the config before the pool is created.
func (o *options) newPool(override func(*threadpool.Config)) (*threadpool.Pool, threadpool.Config, error) {
	conf, err := config.Load(o.v)
	if err != nil {
		return nil, conf, err
	}
	if override != nil {
		override(&conf)
	}
	pool, err := threadpool.New(conf, o.log)
	if err != nil {
		return nil, conf, err
	}
	return pool, conf, nil
}

func newConfigCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective pool configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load(o.v)
			if err != nil {
				return err
			}
			return config.Dump(cmd.OutOrStdout(), conf)
		},
	}
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}
