package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/blutspende/logviewer"
	"github.com/spf13/cobra"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

func newListCmd(options *rootOptions) *cobra.Command {
	var filter logviewer.LogFilter
	var levels []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List log entries, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := options.newClientFn(options)
			if err != nil {
				return err
			}
			for _, level := range levels {
				filter.Levels = append(filter.Levels, logviewer.LogLevel(level))
			}

			logs, err := client.FetchLogs(cmd.Context(), filter)
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(options.out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(logs)
			}
			return printLogTable(options, logs)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVarP(&levels, "level", "l", nil, "only these levels (info, warning, error, debug)")
	flags.StringVarP(&filter.Message, "message", "m", "", "case-insensitive message substring")
	flags.StringVar(&filter.ResourceID, "resource", "", "exact resource ID")
	flags.StringVar(&filter.TraceID, "trace", "", "exact trace ID")
	flags.StringVar(&filter.SpanID, "span", "", "exact span ID")
	flags.StringVar(&filter.Commit, "commit", "", "exact commit")
	flags.StringVar(&filter.TimestampStart, "from", "", "inclusive lower timestamp bound (ISO-8601)")
	flags.StringVar(&filter.TimestampEnd, "to", "", "inclusive upper timestamp bound (ISO-8601)")
	flags.BoolVar(&asJSON, "json", false, "print the raw JSON array")
	return cmd
}

func printLogTable(options *rootOptions, logs []logviewer.LogEntry) error {
	writer := tabwriter.NewWriter(options.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tLEVEL\tTIMESTAMP\tRESOURCE\tTRACE\tMESSAGE")
	for _, entry := range logs {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s\n",
			entry.ID, strings.ToUpper(string(entry.Level)), entry.Timestamp, entry.ResourceID, entry.TraceID, entry.Message)
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(options.out, "%d log(s)\n", len(logs))
	return nil
}

func newCreateCmd(options *rootOptions) *cobra.Command {
	var draft logviewer.LogEntryDraft
	var level string
	var metadata map[string]string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a log entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := options.newClientFn(options)
			if err != nil {
				return err
			}
			draft.Level = logviewer.LogLevel(level)
			if draft.Timestamp == "" {
				draft.Timestamp = time.Now().UTC().Format(timestampLayout)
			}
			if len(metadata) > 0 {
				draft.Metadata = make(map[string]interface{}, len(metadata))
				for key, value := range metadata {
					draft.Metadata[key] = value
				}
			}

			created, err := client.CreateLog(cmd.Context(), draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(options.out, "%s: %s\n", logviewer.LogAddedMsg, created.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&level, "level", "l", string(logviewer.Info), "log level (info, warning, error, debug)")
	flags.StringVarP(&draft.Message, "message", "m", "", "log message")
	flags.StringVar(&draft.ResourceID, "resource", "", "emitting resource")
	flags.StringVar(&draft.Timestamp, "timestamp", "", "ISO-8601 timestamp (default now)")
	flags.StringVar(&draft.TraceID, "trace", "", "trace ID")
	flags.StringVar(&draft.SpanID, "span", "", "span ID")
	flags.StringVar(&draft.Commit, "commit", "", "commit of the emitting build")
	flags.StringToStringVar(&metadata, "meta", nil, "metadata as key=value pairs")
	return cmd
}

func newDeleteCmd(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm(options, fmt.Sprintf("Delete log %s?", args[0])) {
				fmt.Fprintln(options.out, "Aborted")
				return nil
			}
			client, err := options.newClientFn(options)
			if err != nil {
				return err
			}

			deleted, err := client.DeleteLog(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(options.out, "%s: %s\n", logviewer.LogDeletedMsg, deleted.ID)
			return nil
		},
	}
}

func newClearCmd(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every log entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm(options, "Delete ALL logs?") {
				fmt.Fprintln(options.out, "Aborted")
				return nil
			}
			client, err := options.newClientFn(options)
			if err != nil {
				return err
			}

			if err = client.ClearAllLogs(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(options.out, logviewer.AllLogsClearedMsg)
			return nil
		},
	}
}

// newSeedCmd writes the sample data straight into a data file, no server involved.
func newSeedCmd(options *rootOptions) *cobra.Command {
	logsFile := os.Getenv("LOGS_FILE")
	if logsFile == "" {
		logsFile = "logs.json"
	}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a data file with sample logs if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repository := logviewer.NewFileLogRepository(logsFile, true)
			seeded, err := logviewer.SeedSampleLogs(cmd.Context(), repository)
			if err != nil {
				return err
			}
			if seeded {
				fmt.Fprintf(options.out, "Created %s with %d sample logs\n", logsFile, len(logviewer.SampleLogs))
			} else {
				fmt.Fprintf(options.out, "%s already exists, nothing to do\n", logsFile)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&logsFile, "file", "f", logsFile, "data file (env LOGS_FILE)")
	return cmd
}

func confirm(options *rootOptions, question string) bool {
	if options.assumeYes {
		return true
	}
	fmt.Fprintf(options.out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(options.in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
