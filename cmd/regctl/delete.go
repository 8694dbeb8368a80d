package main

import (
	"github.com/spf13/cobra"
)

type deleteKeyRequest struct {
	Handle    uint64
	Recursive bool
}

func newDeleteKeyCmd() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "delete-key <handle>",
		Short: "Delete a key by handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := parseKeyID(args[0])
			if err != nil {
				return err
			}
			req := deleteKeyRequest{Handle: handle, Recursive: recursive}
			printVerbose("delete_key %+v\n", req)
			return call(serverAddr, "delete_key", req, nil)
		},
	}
	cmd.Flags().BoolVar(&recursive, "recursive", false, "delete the subtree instead of failing when non-empty")
	return cmd
}
