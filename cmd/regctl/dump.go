package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exportBranchRequest/Reply talk to regsrvd's export_branch op, letting an
// operator inspect a running engine's branches without stopping the server.
type exportBranchRequest struct {
	Handle uint64
	Arch   string
}

type exportBranchReply struct {
	Text string
}

// newDumpCmd prints a branch's rendered WINE-dialect text to stdout.
func newDumpCmd() *cobra.Command {
	var arch string
	cmd := &cobra.Command{
		Use:   "dump <handle>",
		Short: "Print a branch's rendered .reg text to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := parseKeyID(args[0])
			if err != nil {
				return err
			}
			var reply exportBranchReply
			if err := call(serverAddr, "export_branch", exportBranchRequest{Handle: handle, Arch: arch}, &reply); err != nil {
				return err
			}
			fmt.Print(reply.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&arch, "arch", "", "win32 or win64; defaults to the server's prefix")
	return cmd
}
