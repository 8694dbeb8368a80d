package regtext

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sort"
	"strings"

	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

// SaveOptions controls canonical emission.
type SaveOptions struct {
	Arch string // "win32" or "win64"; defaults to ArchWin32 if empty.
	// BasePath is recorded in the leading comment for operator legibility;
	// it has no effect on Load.
	BasePath string
}

// Save renders the subtree rooted at id in canonical WINE-dialect form: a
// leading comment, the arch tag, then each key that has values, no
// subkeys, a class, or is a symlink -- every other key is implied by its
// descendants and is not written. Volatile keys, and
// everything under them, are never written.
func Save(eng *registry.Engine, id types.KeyID, opts SaveOptions) ([]byte, error) {
	meta, err := eng.StatKey(id)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(FileHeader + "\n")
	if opts.BasePath != "" {
		fmt.Fprintf(&buf, "%s %s\n", CommentPrefix, opts.BasePath)
	}
	arch := opts.Arch
	if arch == "" {
		arch = ArchWin32
	}
	fmt.Fprintf(&buf, "%s%s\n\n", ArchPrefix, arch)

	if err := saveKey(&buf, eng, id, []string{meta.Name}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func saveKey(buf *bytes.Buffer, eng *registry.Engine, id types.KeyID, path []string) error {
	meta, err := eng.StatKey(id)
	if err != nil {
		return err
	}
	if meta.Flags.Has(types.FlagVolatile) {
		return nil
	}
	values, err := eng.Values(id)
	if err != nil {
		return err
	}
	subIDs, err := eng.Subkeys(id)
	if err != nil {
		return err
	}
	isSymlink := meta.Flags.Has(types.FlagSymlink)
	worthEmitting := len(values) > 0 || len(subIDs) == 0 || meta.Class != "" || isSymlink
	if worthEmitting {
		emitSection(buf, meta, path, values, isSymlink)
	}

	type child struct {
		name string
		id   types.KeyID
	}
	children := make([]child, 0, len(subIDs))
	for _, sid := range subIDs {
		cm, err := eng.StatKey(sid)
		if err != nil {
			return err
		}
		children = append(children, child{name: cm.Name, id: sid})
	}
	sort.Slice(children, func(i, j int) bool {
		return strings.ToLower(children[i].name) < strings.ToLower(children[j].name)
	})
	for _, c := range children {
		childPath := append(append([]string{}, path...), c.name)
		if err := saveKey(buf, eng, c.id, childPath); err != nil {
			return err
		}
	}
	return nil
}

func emitSection(buf *bytes.Buffer, meta types.KeyMeta, path []string, values []registry.Value, isSymlink bool) {
	buf.WriteString(KeyOpenBracket)
	buf.WriteString(escapeQPath(path))
	buf.WriteString(KeyCloseBracket)
	fmt.Fprintf(buf, " %d\n", meta.LastWrite.Unix())

	fmt.Fprintf(buf, "%s%016x\n", TimeOptPrefix, types.Tick(meta.LastWrite))
	if meta.Class != "" {
		fmt.Fprintf(buf, "%s\"%s\"\n", ClassOptPrefix, escapeQString(meta.Class))
	}
	if isSymlink {
		buf.WriteString(LinkOpt + "\n")
	}

	sort.Slice(values, func(i, j int) bool {
		return strings.ToLower(values[i].Name) < strings.ToLower(values[j].Name)
	})
	for _, v := range values {
		emitValue(buf, v)
	}
	buf.WriteString("\n")
}

func escapeQPath(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = escapeQString(p)
	}
	return strings.Join(parts, Backslash)
}

func emitValue(buf *bytes.Buffer, v registry.Value) {
	if v.Name == "" {
		buf.WriteString(DefaultValueLine)
	} else {
		fmt.Fprintf(buf, "\"%s\"=", escapeQString(v.Name))
	}

	switch {
	case v.Type == types.REG_DWORD && len(v.Data) == 4:
		fmt.Fprintf(buf, "%s%08x", DWORDPrefix, binary.LittleEndian.Uint32(v.Data))

	case isStringType(v.Type) && roundTripsAsString(v.Data):
		s := decodeStringPayload(v.Type, v.Data)
		if v.Type == types.REG_SZ {
			fmt.Fprintf(buf, "\"%s\"", escapeQString(s))
		} else {
			fmt.Fprintf(buf, "%s%x%s\"%s\"", StrTypeOpen, uint32(v.Type), TypeClose, escapeQString(s))
		}

	case v.Type == types.REG_BINARY:
		fmt.Fprintf(buf, "%s%s", HexPrefix, encodeHexBytes(v.Data))

	default:
		fmt.Fprintf(buf, "%s%x%s%s", HexTypeOpen, uint32(v.Type), TypeClose, encodeHexBytes(v.Data))
	}
	buf.WriteString("\n")
}

func isStringType(t types.RegType) bool {
	return t == types.REG_SZ || t == types.REG_EXPAND_SZ || t == types.REG_MULTI_SZ
}

// roundTripsAsString reports whether data is an even-length, NUL-terminated
// UTF-16LE payload: the condition under which a
// string-family value emits through the quoted form instead of typed hex.
func roundTripsAsString(data []byte) bool {
	if len(data) < 2 || len(data)%2 != 0 {
		return false
	}
	return data[len(data)-1] == 0 && data[len(data)-2] == 0
}

func decodeStringPayload(typ types.RegType, data []byte) string {
	if typ == types.REG_MULTI_SZ {
		return strings.Join(types.DecodeMultiString(data), "\x00")
	}
	return types.DecodeUTF16LEZero(data)
}
