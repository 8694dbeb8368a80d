package main

import "github.com/spf13/cobra"

type getKeyValueRequest struct {
	Handle uint64
	Name   string
}

type getKeyValueReply struct {
	Type regType
	Data []byte
}

func newGetValueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-value <handle> <name>",
		Short: "Get a value from a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := parseKeyID(args[0])
			if err != nil {
				return err
			}
			req := getKeyValueRequest{Handle: handle, Name: args[1]}
			printVerbose("get_key_value %+v\n", req)
			var reply getKeyValueReply
			if err := call(serverAddr, "get_key_value", req, &reply); err != nil {
				return err
			}
			if jsonOut {
				printResult(reply)
				return nil
			}
			printResult(formatValue(reply.Type, reply.Data))
			return nil
		},
	}
	return cmd
}
