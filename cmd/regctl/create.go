package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

type objectAttributes struct {
	Root          uint64
	Path          string
	CallerIs32Bit bool
	OpenLink      bool
}

type createOptions struct {
	Volatile bool
	Link     bool
	Class    string
}

type createKeyRequest struct {
	Attributes objectAttributes
	Options    createOptions
	Access     uint32
	Class      string
}

type createKeyReply struct {
	Handle  uint64
	Created bool
}

func newCreateKeyCmd() *cobra.Command {
	var root uint64
	var volatile, link bool
	var class string

	cmd := &cobra.Command{
		Use:   "create-key <path>",
		Short: "Create (or open) a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := createKeyRequest{
				Attributes: objectAttributes{Root: root, Path: args[0]},
				Options:    createOptions{Volatile: volatile, Link: link},
				Class:      class,
			}
			printVerbose("create_key %+v\n", req)
			var reply createKeyReply
			if err := call(serverAddr, "create_key", req, &reply); err != nil {
				return err
			}
			printResult(reply)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&root, "root", 0, "parent key handle (0 = engine root)")
	cmd.Flags().BoolVar(&volatile, "volatile", false, "create as VOLATILE")
	cmd.Flags().BoolVar(&link, "link", false, "create as a SYMLINK key")
	cmd.Flags().StringVar(&class, "class", "", "key class string")
	return cmd
}

// parseKeyID accepts decimal handles on the command line; it exists purely
// for subcommands that take a bare handle argument rather than a flag.
func parseKeyID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}
