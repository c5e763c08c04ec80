package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/awaketai/news-aggregator/cmd/aggregate"
	"github.com/awaketai/news-aggregator/config"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath  string
	logLevel    string
	logFile     string
	metricsAddr string
	timeout     int
	maxFeeds    int
	maxTasks    int
	maxPerHost  int
	reload      bool
}

// NewRootCmd builds the newsagg command. printVersion writes build metadata
// for the version subcommand.
func NewRootCmd(printVersion func(w io.Writer)) *cobra.Command {
	var f flags
	rootCmd := &cobra.Command{
		Use:           "newsagg <feed-list-uri>",
		Short:         "crawl RSS feeds and search the articles they link to",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: wrong number of arguments.")
				fmt.Fprintln(cmd.ErrOrStderr(), "Usage: newsagg <feed-url>")
				return nil
			}
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return aggregate.Run(ctx, cfg, args[0], aggregate.IO{
				In:  cmd.InOrStdin(),
				Out: cmd.OutOrStdout(),
				Err: cmd.ErrOrStderr(),
			})
		},
	}

	fs := rootCmd.Flags()
	fs.StringVar(&f.configPath, "config", "", "TOML config file (default ./config.toml when present)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFile, "log-file", "", "write logs to this rotating file instead of stderr")
	fs.StringVar(&f.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	fs.IntVar(&f.timeout, "timeout", 0, "per-request fetch timeout in seconds, 0 for none")
	fs.IntVar(&f.maxFeeds, "max-feeds", 0, "feeds downloaded at once")
	fs.IntVar(&f.maxTasks, "max-tasks", 0, "article fetches in flight overall")
	fs.IntVar(&f.maxPerHost, "max-per-host", 0, "article fetches in flight per host")
	fs.BoolVar(&f.reload, "reload", false, "fetch an article again when several feeds list it")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print version",
		Long:  "print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	})

	return rootCmd
}

// loadConfig reads the config file and environment, then applies flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command, f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	changed := cmd.Flags().Changed
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-file") {
		cfg.LogFile = f.logFile
	}
	if changed("metrics-addr") {
		cfg.MetricsAddr = f.metricsAddr
	}
	if changed("timeout") {
		cfg.Timeout = f.timeout
	}
	if changed("max-feeds") {
		cfg.MaxFeeds = f.maxFeeds
	}
	if changed("max-tasks") {
		cfg.MaxTasks = f.maxTasks
	}
	if changed("max-per-host") {
		cfg.MaxPerHost = f.maxPerHost
	}
	if changed("reload") {
		cfg.Reload = f.reload
	}

	return cfg, cfg.Validate()
}

func Execute(printVersion func(w io.Writer)) error {
	return NewRootCmd(printVersion).ExecuteContext(context.Background())
}
