// Package cmd implements the command-line interface for tgrep.
// It uses the Cobra library to handle argument parsing and execution.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// debugFlag enables debug-level logging to stderr; debug traces are
// ambient and never printed by default.
var debugFlag bool

// rootCmd is tgrep's only command: `tgrep [TIME] [PATH]`.
var rootCmd = &cobra.Command{
	Use:   "tgrep [TIME] [PATH]",
	Short: "Locate a time range in a syslog-style log file",
	Long: `tgrep finds the byte range of the lines in PATH whose timestamp
falls within TIME, without scanning the file sequentially end to end:
it samples the file at interpolated offsets and remembers what it
learns in a persisted time-to-byte-offset map next to PATH's
fingerprint, so repeat queries against the same file get fast.

TIME has the form H[:M[:S]][-H[:M[:S]]] (e.g. "14", "14:30",
"14:30:00-15:00:00"). Omitting TIME selects the log's entire observed
span. PATH defaults to /logs/haproxy.log.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runTgrep,
}

// Execute runs the root command; called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&debugFlag, "debug", "v", false,
		"log debug-level traces to stderr")
}
