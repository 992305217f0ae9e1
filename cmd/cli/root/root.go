package root

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crucial707/changelog-browser/cmd/cli/config"
	"github.com/crucial707/changelog-browser/internal/client"
	"github.com/crucial707/changelog-browser/internal/logging"
)

var (
	flagURL      string
	flagProfile  string
	flagLogLevel string
	flagTimeout  time.Duration
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:          "changelog-cli",
	Short:        "Browse the countries-states-cities changelog",
	Long:         "Command line interface for browsing the published changelog of the countries, states and cities dataset",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "changelog data base URL (env: "+config.EnvDataURL+")")
	RootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "profile from ~/.changelog/config.yaml")
	RootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "log level: debug|info|warn|error")
	RootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "HTTP timeout for each fetch")
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}

// Settings resolves flags, environment and the config file. Problems with
// the file or environment are logged and the remaining sources still apply.
func Settings() config.Settings {
	s, err := config.Resolve(flagURL, flagProfile)
	if err != nil {
		Logger().WithError(err).Warn("ignoring invalid configuration")
	}
	return s
}

// Client builds the data client from the resolved settings.
func Client() *client.Client {
	return client.New(Settings().DataURL, client.WithTimeout(flagTimeout), client.WithUserAgent("changelog-cli"))
}

// Logger writes to stderr so it never mixes with command output.
func Logger() *logrus.Logger {
	return logging.New("text", flagLogLevel)
}
