package main

import (
	"fmt"
	"io"
	"os"

	"github.com/blutspende/logviewer"
	"github.com/blutspende/logviewer/clients"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultServerURL = "http://localhost:3001"

type rootOptions struct {
	serverURL   string
	insecure    bool
	verbose     bool
	assumeYes   bool
	in          io.Reader
	out         io.Writer
	newClientFn func(options *rootOptions) (clients.LogViewerClient, error)
}

func newLogViewerClient(options *rootOptions) (clients.LogViewerClient, error) {
	return clients.NewLogViewerClient(options.serverURL, clients.NewRestyClient(options.insecure, options.logLevel()))
}

func (o *rootOptions) logLevel() zerolog.Level {
	if o.verbose {
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	options := &rootOptions{
		in:          in,
		out:         out,
		newClientFn: newLogViewerClient,
	}

	serverURL := os.Getenv("LOGVIEWER_URL")
	if serverURL == "" {
		serverURL = defaultServerURL
	}

	rootCmd := &cobra.Command{
		Use:           "logctl",
		Short:         "Command line client of the log viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logviewer.ConfigureLogger(options.logLevel())
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&options.serverURL, "server", serverURL, "base URL of the log viewer API (env LOGVIEWER_URL)")
	flags.BoolVar(&options.insecure, "insecure", false, "skip TLS certificate verification")
	flags.BoolVarP(&options.verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVarP(&options.assumeYes, "yes", "y", false, "do not ask for confirmation")

	rootCmd.AddCommand(
		newListCmd(options),
		newCreateCmd(options),
		newDeleteCmd(options),
		newClearCmd(options),
		newSeedCmd(options),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
