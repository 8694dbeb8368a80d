package main

import (
	"os"

	"github.com/spf13/cobra"
)

// newExportCmd writes a branch's rendered .reg text to a file, the same
// export_branch op as dump but saved to disk for later loading or diffing.
func newExportCmd() *cobra.Command {
	var arch string
	cmd := &cobra.Command{
		Use:   "export <handle> <file>",
		Short: "Write a branch's rendered .reg text to a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := parseKeyID(args[0])
			if err != nil {
				return err
			}
			var reply exportBranchReply
			if err := call(serverAddr, "export_branch", exportBranchRequest{Handle: handle, Arch: arch}, &reply); err != nil {
				return err
			}
			return os.WriteFile(args[1], []byte(reply.Text), 0o644)
		},
	}
	cmd.Flags().StringVar(&arch, "arch", "", "win32 or win64; defaults to the server's prefix")
	return cmd
}
