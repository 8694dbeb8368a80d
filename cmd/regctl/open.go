package main

import "github.com/spf13/cobra"

type openKeyRequest struct {
	Attributes objectAttributes
	Access     uint32
}

type openKeyReply struct {
	Handle uint64
}

func newOpenKeyCmd() *cobra.Command {
	var root uint64
	var openLink bool

	cmd := &cobra.Command{
		Use:   "open-key <path>",
		Short: "Resolve a path to a key handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := openKeyRequest{Attributes: objectAttributes{Root: root, Path: args[0], OpenLink: openLink}}
			printVerbose("open_key %+v\n", req)
			var reply openKeyReply
			if err := call(serverAddr, "open_key", req, &reply); err != nil {
				return err
			}
			printResult(reply)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&root, "root", 0, "parent key handle (0 = engine root)")
	cmd.Flags().BoolVar(&openLink, "open-link", false, "stop at a symlink key itself instead of following it")
	return cmd
}
