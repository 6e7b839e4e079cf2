package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alorle/iptv-relay/config"
	"github.com/alorle/iptv-relay/logging"
)

// envFiles are loaded in order before the configuration is read. Variables
// already present in the environment are never overwritten. A missing file
// is skipped, an unreadable or malformed one is an error.
var envFiles = []string{".env", ".env.local"}

// app holds the flag values and the configuration shared by all commands.
type app struct {
	configPath string
	iptvURL    string
	apiPort    int
	debug      bool

	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "iptv-relay",
		Short: "Merge, filter and rename IPTV playlists and XMLTV guides",
		Long: `iptv-relay fetches one or more M3U playlists and an XMLTV guide, merges
the playlists into one channel list, applies an operator maintained
correction table and serves the results over HTTP.

Without a subcommand it runs the server.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runServe,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default is $CONFIG_FILE or "+config.DefaultFile+")")
	flags.StringVar(&a.iptvURL, "iptv-url", "", "URLs of IPTV providers, separated by comma")
	flags.IntVar(&a.apiPort, "api-port", 0, "port to listen on (default 3003)")
	flags.BoolVar(&a.debug, "debug", false, "debug mode")

	root.AddCommand(
		newServeCommand(a),
		newCheckCommand(a),
		newVersionCommand(),
	)
	return root
}

// setup loads .env files and the configuration, then lets flags override it.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", file, err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	return nil
}

func (a *app) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("iptv-url") {
		cfg.IPTV.Sources = config.SplitSources(a.iptvURL)
	}
	if flags.Changed("api-port") {
		cfg.HTTP.Port = strconv.Itoa(a.apiPort)
	}
	if a.debug {
		cfg.LogLevel = "DEBUG"
	}
}

// newLogger creates the JSON logger at the configured level.
func (a *app) newLogger(w io.Writer) *slog.Logger {
	return logging.New(w, logging.ParseLevel(a.cfg.LogLevel))
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Printing the version needs no configuration.
		PersistentPreRun: func(*cobra.Command, []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "iptv-relay version %s\n", version)
			fmt.Fprintf(out, "commit: %s\n", commit)
			fmt.Fprintf(out, "built: %s\n", date)
		},
	}
}
