package regtext

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/joshuapare/hivekit/pkg/types"
	"github.com/joshuapare/hivekit/registry"
)

// LoadOptions controls Load's architecture-tag check and diagnostic
// logging.
type LoadOptions struct {
	// WantArch, if set, must match the stream's #arch= tag or the load
	// fails with NOT_REGISTRY_FILE.
	WantArch string
	// Log receives one warning per skipped malformed line. Defaults to
	// slog.Default() when nil.
	Log *slog.Logger
}

// Load reads a WINE-dialect .reg stream and populates eng with the keys
// and values it describes, rooted at root. Only structural failures abort
// the load: a missing header, or a missing/mismatched/duplicated
// architecture tag. A malformed section header, #time/#class/#link line, or
// value line is logged and skipped — the rest of the file still applies,
// the tolerant-loader behavior real-world .reg files (hand-edited, or
// written by a different tool) rely on.
func Load(r io.Reader, eng *registry.Engine, root types.KeyID, opts LoadOptions) error {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	ls := newLineScanner(r)

	first, ok := ls.next()
	if !ok || strings.TrimRight(first, "\r") != FileHeader {
		return types.ErrNotRegistryFile
	}

	var cur types.KeyID
	curSet := false
	sawArch := false

	for {
		raw, ok := ls.next()
		if !ok {
			break
		}
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, ArchPrefix):
			if sawArch {
				return types.ErrNotRegistryFile
			}
			arch := strings.TrimPrefix(trimmed, ArchPrefix)
			if arch != ArchWin32 && arch != ArchWin64 {
				return types.ErrNotRegistryFile
			}
			if opts.WantArch != "" && arch != opts.WantArch {
				return types.ErrNotRegistryFile
			}
			sawArch = true

		case strings.HasPrefix(trimmed, KeyOpenBracket):
			path, epoch, err := parseSectionHeader(trimmed)
			if err != nil {
				log.Warn("regtext: skipping malformed section header", "line", trimmed, "error", err)
				curSet = false
				continue
			}
			id, _, err := eng.CreateKey(root, path, registry.CreateOptions{})
			if err != nil {
				log.Warn("regtext: skipping section header, create_key failed", "path", path, "error", err)
				curSet = false
				continue
			}
			if epoch != 0 {
				if err := eng.SetModifTicks(id, types.Tick(time.Unix(epoch, 0))); err != nil {
					log.Warn("regtext: skipping section epoch", "path", path, "error", err)
				}
			}
			cur = id
			curSet = true

		case strings.HasPrefix(trimmed, TimeOptPrefix):
			if !curSet {
				log.Warn("regtext: skipping #time line outside any section", "line", trimmed)
				continue
			}
			ticks, err := strconv.ParseUint(strings.TrimPrefix(trimmed, TimeOptPrefix), 16, 64)
			if err != nil {
				log.Warn("regtext: skipping malformed #time line", "line", trimmed, "error", err)
				continue
			}
			if err := eng.SetModifTicks(cur, ticks); err != nil {
				log.Warn("regtext: skipping #time line, set failed", "line", trimmed, "error", err)
			}

		case strings.HasPrefix(trimmed, ClassOptPrefix):
			if !curSet {
				log.Warn("regtext: skipping #class line outside any section", "line", trimmed)
				continue
			}
			if err := applyClassLine(eng, cur, trimmed); err != nil {
				log.Warn("regtext: skipping malformed #class line", "line", trimmed, "error", err)
			}

		case trimmed == LinkOpt:
			if !curSet {
				log.Warn("regtext: skipping #link line outside any section", "line", trimmed)
				continue
			}
			if err := eng.MarkSymlink(cur); err != nil {
				log.Warn("regtext: skipping #link line, mark failed", "line", trimmed, "error", err)
			}

		default:
			if !curSet {
				continue
			}
			if err := parseValueLine(eng, cur, trimmed); err != nil {
				log.Warn("regtext: skipping malformed value line", "line", trimmed, "error", err)
			}
		}
	}
	if err := ls.Err(); err != nil {
		return err
	}
	if !sawArch {
		return types.ErrNotRegistryFile
	}
	return nil
}

// applyClassLine parses and applies a "#class=" line's quoted class name.
func applyClassLine(eng *registry.Engine, cur types.KeyID, trimmed string) error {
	body := strings.TrimPrefix(trimmed, ClassOptPrefix)
	if !strings.HasPrefix(body, Quote) {
		return fmt.Errorf("regtext: malformed #class line %q", trimmed)
	}
	end := findUnescapedQuote(body, 1)
	if end < 0 {
		return fmt.Errorf("regtext: unterminated #class string")
	}
	class, err := unescapeQString(body[1:end])
	if err != nil {
		return err
	}
	return eng.SetClass(cur, class)
}

// parseSectionHeader parses "[" qpath "]" (" " decimal-epoch)?, returning
// the backslash-joined, unescaped path and the optional trailing epoch
// (seconds since 1970, 0 if absent).
func parseSectionHeader(line string) (string, int64, error) {
	closeIdx := strings.LastIndex(line, KeyCloseBracket)
	if !strings.HasPrefix(line, KeyOpenBracket) || closeIdx < 0 {
		return "", 0, fmt.Errorf("regtext: malformed section header %q", line)
	}
	segs, err := splitQPath(line[1:closeIdx])
	if err != nil {
		return "", 0, err
	}
	rest := strings.TrimSpace(line[closeIdx+1:])
	var epoch int64
	if rest != "" {
		v, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return "", 0, fmt.Errorf("regtext: bad section epoch %q: %w", rest, err)
		}
		epoch = v
	}
	return strings.Join(segs, Backslash), epoch, nil
}

// parseValueLine parses (qname|"@") "=" typed_value and applies it to cur.
func parseValueLine(eng *registry.Engine, cur types.KeyID, line string) error {
	var name, rest string
	switch {
	case strings.HasPrefix(line, DefaultValueLine):
		name = ""
		rest = line[len(DefaultValueLine):]
	case strings.HasPrefix(line, Quote):
		end := findUnescapedQuote(line, 1)
		if end < 0 || end+1 >= len(line) || string(line[end+1]) != ValueAssignment {
			return fmt.Errorf("regtext: malformed value line %q", line)
		}
		n, err := unescapeQString(line[1:end])
		if err != nil {
			return err
		}
		name = n
		rest = line[end+2:]
	default:
		return fmt.Errorf("regtext: malformed value line %q", line)
	}

	typ, data, err := parseTypedValue(rest)
	if err != nil {
		return err
	}
	return eng.SetValue(cur, name, typ, data)
}

// parseTypedValue parses the typed_value production.
func parseTypedValue(rest string) (types.RegType, []byte, error) {
	switch {
	case strings.HasPrefix(rest, Quote):
		end := findUnescapedQuote(rest, 1)
		if end < 0 {
			return 0, nil, fmt.Errorf("regtext: unterminated string value")
		}
		s, err := unescapeQString(rest[1:end])
		if err != nil {
			return 0, nil, err
		}
		return types.REG_SZ, types.EncodeUTF16LEZero(s), nil

	case strings.HasPrefix(rest, StrTypeOpen):
		typ, body, err := splitTyped(rest, StrTypeOpen)
		if err != nil {
			return 0, nil, err
		}
		if !strings.HasPrefix(body, Quote) {
			return 0, nil, fmt.Errorf("regtext: str() value missing quoted body")
		}
		end := findUnescapedQuote(body, 1)
		if end < 0 {
			return 0, nil, fmt.Errorf("regtext: unterminated str() value")
		}
		s, err := unescapeQString(body[1:end])
		if err != nil {
			return 0, nil, err
		}
		if typ == types.REG_MULTI_SZ {
			return typ, types.EncodeMultiString(strings.Split(s, "\x00")), nil
		}
		return typ, types.EncodeUTF16LEZero(s), nil

	case strings.HasPrefix(rest, DWORDPrefix):
		v, err := strconv.ParseUint(strings.TrimPrefix(rest, DWORDPrefix), 16, 32)
		if err != nil {
			return 0, nil, fmt.Errorf("regtext: bad dword value: %w", err)
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(v))
		return types.REG_DWORD, buf, nil

	case strings.HasPrefix(rest, HexTypeOpen):
		typ, body, err := splitTyped(rest, HexTypeOpen)
		if err != nil {
			return 0, nil, err
		}
		data, err := decodeHexBytes(body)
		if err != nil {
			return 0, nil, err
		}
		return typ, data, nil

	case strings.HasPrefix(rest, HexPrefix):
		data, err := decodeHexBytes(strings.TrimPrefix(rest, HexPrefix))
		if err != nil {
			return 0, nil, err
		}
		return types.REG_BINARY, data, nil

	default:
		return 0, nil, fmt.Errorf("regtext: unrecognized value form %q", rest)
	}
}

// splitTyped parses the "str("hex"):" / "hex("hex"):" opening of a typed
// value, returning the decoded type number and the remainder of the line.
func splitTyped(rest, open string) (types.RegType, string, error) {
	rest = strings.TrimPrefix(rest, open)
	idx := strings.Index(rest, TypeClose)
	if idx < 0 {
		return 0, "", fmt.Errorf("regtext: malformed typed value %q", rest)
	}
	v, err := strconv.ParseUint(rest[:idx], 16, 32)
	if err != nil {
		return 0, "", fmt.Errorf("regtext: bad type number %q: %w", rest[:idx], err)
	}
	return types.RegType(v), rest[idx+len(TypeClose):], nil
}
