package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

type keyMeta struct {
	ID          uint64
	Name        string
	Class       string
	LastWrite   time.Time
	SubkeyCount int
	ValueCount  int
	Flags       uint32
}

type enumKeyRequest struct {
	Handle    uint64
	Index     int
	InfoClass int
}

type enumKeyReply struct {
	Meta     keyMeta
	FullName string
}

var keyInfoClasses = map[string]int{
	"basic":  0,
	"node":   1,
	"full":   2,
	"cached": 3,
	"name":   4,
}

func newEnumKeyCmd() *cobra.Command {
	var infoClass string
	cmd := &cobra.Command{
		Use:   "enum-key <handle>",
		Short: "Enumerate a key's direct children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handle, err := parseKeyID(args[0])
			if err != nil {
				return err
			}
			ic, ok := keyInfoClasses[infoClass]
			if !ok {
				return fmt.Errorf("unrecognized --info-class %q", infoClass)
			}
			for i := 0; ; i++ {
				req := enumKeyRequest{Handle: handle, Index: i, InfoClass: ic}
				var reply enumKeyReply
				if err := call(serverAddr, "enum_key", req, &reply); err != nil {
					// NO_MORE_ENTRIES ends the enumeration cleanly.
					break
				}
				if jsonOut {
					printResult(reply)
					continue
				}
				name := reply.Meta.Name
				if reply.FullName != "" {
					name = reply.FullName
				}
				fmt.Println(name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&infoClass, "info-class", "basic", "basic, node, full, cached, or name")
	return cmd
}
