// Command regsrvd serves the hierarchical configuration-tree engine over a
// JSON-over-net.Listener transport.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
