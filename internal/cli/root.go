// Package cli implements the livewise terminal client.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/DeafMist/livewise-insights/internal/logger"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

const (
	keyProviderURL = "provider-url"
	keyTimeout     = "timeout"
	keyVerbose     = "verbose"
	keyErrorScope  = "error-scope"
)

type app struct {
	v   *viper.Viper
	out io.Writer
	log *slog.Logger
}

// Execute runs the livewise command against os.Args until it finishes or
// the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd(os.Stdout).ExecuteContext(ctx)
}

// NewRootCmd assembles the command tree writing to out. Settings resolve from
// flags, then LIVEWISE_* environment variables, then defaults.
func NewRootCmd(out io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, log: logger.Discard()}

	root := &cobra.Command{
		Use:   "livewise",
		Short: "Location insights in the terminal",
		Long: `livewise asks the insights provider about a city and prints weather,
crime, transport, amenities and local news as cards.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if a.v.GetBool(keyVerbose) {
				a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.String(keyProviderURL, "http://localhost:3001", "insights provider base URL")
	flags.Duration(keyTimeout, 10*time.Second, "provider request timeout")
	flags.String(keyErrorScope, "weather", "cards flagged when a search fails (weather or all)")
	flags.BoolP(keyVerbose, "v", false, "log provider calls to stderr")

	_ = a.v.BindPFlags(flags)
	a.v.SetEnvPrefix("LIVEWISE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.searchCmd(),
		a.decodeCmd(),
		a.configCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("livewise %s\n", Version)
		},
	}
}
