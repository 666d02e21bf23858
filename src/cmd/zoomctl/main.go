package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"screen-zoomer/src/config"
	"screen-zoomer/src/singleinstance"
)

type cliOptions struct {
	timeout time.Duration
	verbose bool
	jsonOut bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(os.Args)
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"zoomctl"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "zoomctl",
		Short:         "Control a resident screen-zoomer overlay",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if !opts.verbose {
				log.SetOutput(io.Discard)
			} else {
				log.SetOutput(cmd.ErrOrStderr())
			}
			// A .env beside the executable may override the port range.
			_, _ = config.Load()
		},
	}

	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 3*time.Second, "per-request timeout")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output to stderr")

	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newStatusCmd(opts))
	return cmd
}

func newShowCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Ask the resident overlay to appear",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			delegated, err := singleinstance.NewClient().TryShow(ctx)
			if err != nil {
				return fmt.Errorf("resident overlay refused: %w", err)
			}
			if !delegated {
				return fmt.Errorf("no resident overlay running")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "shown")
			return nil
		},
	}
}

type statusResult struct {
	Running   bool   `json:"running"`
	Port      int    `json:"port,omitempty"`
	PortStart int    `json:"port_start"`
	PortEnd   int    `json:"port_end"`
	Timestamp string `json:"timestamp"`
}

func newStatusCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether a resident overlay is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			port, found := singleinstance.DetectResidentPort(ctx)
			start, end := singleinstance.GetPortRangeForDebug()

			if opts.jsonOut {
				res := statusResult{
					Running:   found,
					Port:      port,
					PortStart: start,
					PortEnd:   end,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			if found {
				fmt.Fprintf(cmd.OutOrStdout(), "running on port %d\n", port)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "not running (scanned ports %d-%d)\n", start, end)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "output as JSON")
	return cmd
}
