package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	serverAddr string
	jsonOut    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "regctl",
	Short:   "Talk to a running regsrvd configuration-tree server",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", "unix:/tmp/regsrvd.sock", "regsrvd address, e.g. unix:/tmp/regsrvd.sock or tcp:localhost:8455")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print raw JSON results")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print the request before sending it")

	rootCmd.AddCommand(newCreateKeyCmd())
	rootCmd.AddCommand(newOpenKeyCmd())
	rootCmd.AddCommand(newDeleteKeyCmd())
	rootCmd.AddCommand(newGetValueCmd())
	rootCmd.AddCommand(newSetValueCmd())
	rootCmd.AddCommand(newEnumKeyCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newExportCmd())
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printResult(v any) {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(v)
		return
	}
	fmt.Printf("%+v\n", v)
}

func printVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
