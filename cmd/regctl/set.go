package main

import "github.com/spf13/cobra"

type setKeyValueRequest struct {
	Handle uint64
	Name   string
	Type   regType
	Data   []byte
}

func newSetValueCmd() *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "set-value <handle> <name> <value>",
		Short: "Set a value on a key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := parseKeyID(args[0])
			if err != nil {
				return err
			}
			typ, err := parseRegType(typeName)
			if err != nil {
				return err
			}
			data, err := encodeValue(typ, args[2])
			if err != nil {
				return err
			}
			req := setKeyValueRequest{Handle: handle, Name: args[1], Type: typ, Data: data}
			printVerbose("set_key_value %+v\n", req)
			return call(serverAddr, "set_key_value", req, nil)
		},
	}
	cmd.Flags().StringVar(&typeName, "type", "sz", "value type: sz, expand_sz, binary, dword, qword, multi_sz, link")
	return cmd
}
