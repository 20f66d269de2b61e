// WageTrack - a local-first wage and shift tracker.
package main

import (
	"os"

	"github.com/wagetrack/wagetrack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
