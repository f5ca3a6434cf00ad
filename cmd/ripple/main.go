package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┬┌─┐┌─┐┬  ┌─┐
  ├┬┘│├─┘├─┘│  ├┤
  ┴└─┴┴  ┴  ┴─┘└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "A reactive view and data-binding runtime",
		Long: `Ripple binds observable data to HTML views.

Templates declare {{key}} interpolation sites, directives, and
component tags. Views created from a template stay live: setting a
model key schedules a coalesced DOM write, flushed once per turn.

The CLI serves a template as a live demo over websockets or renders
it once to stdout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		renderCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// printBanner prints the ripple ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
