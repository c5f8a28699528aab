// Package main is the entry point for tgrep, a time-range grep tool
// for syslog-style log files.
package main

import (
	"github.com/Evansbee/tgrep/cmd"
)

func main() {
	// All argument parsing, map-directory management, and query
	// execution is delegated to the cmd package.
	cmd.Execute()
}
