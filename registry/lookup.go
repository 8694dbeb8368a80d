package registry

import (
	"strings"

	"github.com/joshuapare/hivekit/pkg/types"
)

// maxSymlinkHops bounds symlink resolution so a cycle (or pathological
// chain) cannot loop the engine forever.
const maxSymlinkHops = 16

// maxLookupSegmentLen bounds one path segment during lookup. This is a
// path-sanity bound independent of Limits.MaxKeyNameLen: a key created
// under a relaxed profile must still resolve after SetLimits narrows the
// engine to a stricter one.
const maxLookupSegmentLen = 65535

// Lookup resolves path starting from start, following symlinks and
// applying WoW64 redirection per attr. A nil error with
// types.InvalidKeyID means "not found, but the caller may create it" — the
// distinction open() and create() need at the leaf segment.
func (e *Engine) Lookup(start types.KeyID, path string, attr types.LookupAttr) (types.KeyID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lookupLocked(start, path, attr, 0)
}

func (e *Engine) lookupLocked(start types.KeyID, path string, attr types.LookupAttr, hops int) (types.KeyID, error) {
	if path == "" {
		return start, nil
	}
	if err := validatePathPrefix(path); err != nil {
		return 0, err
	}
	segs := tokenize(path)
	cur := start
	for i, seg := range segs {
		if len(seg) > maxLookupSegmentLen {
			return 0, types.ErrInvalidParam
		}
		searchBase := e.wow64SearchBase(cur, attr)
		base := e.get(searchBase)
		if base == nil {
			return 0, types.ErrNotFound
		}
		idx, ok := base.findChildIndex(seg)
		if !ok {
			if i < len(segs)-1 {
				return 0, types.ErrNotFound
			}
			return types.InvalidKeyID, nil
		}
		cur = base.children.at(idx).id
		ck := e.get(cur)

		if ck.flags.Has(types.FlagSymlink) && !attr.OpenLink {
			hops++
			if hops > maxSymlinkHops {
				return 0, types.ErrNameTooLong
			}
			target, err := e.symlinkTargetLocked(ck)
			if err != nil {
				return 0, err
			}
			resolveStart := ck.parent
			rest := target
			if strings.HasPrefix(target, `\`) {
				resolveStart = e.root
				rest = strings.TrimPrefix(target, `\`)
			}
			resolved, err := e.lookupLocked(resolveStart, rest, attr, hops)
			if err != nil {
				return 0, err
			}
			if resolved == types.InvalidKeyID {
				return 0, types.ErrNotFound
			}
			cur = resolved
			ck = e.get(cur)
		}

		if attr.Wow64 && ck.flags.Has(types.FlagWow64) {
			if wi, ok := ck.findChildIndex("Wow6432Node"); ok {
				cur = ck.children.at(wi).id
			}
		}
	}
	return cur, nil
}

// wow64SearchBase: if cur is the Wow6432Node child of a WOWSHARE parent and
// the request wants the WoW64 view, children are searched on the parent
// instead, so identical subkeys appear in both the 32- and 64-bit views.
func (e *Engine) wow64SearchBase(cur types.KeyID, attr types.LookupAttr) types.KeyID {
	if !attr.Wow64 {
		return cur
	}
	k := e.get(cur)
	if k == nil || !equalFold(k.name, "Wow6432Node") {
		return cur
	}
	parent := e.get(k.parent)
	if parent != nil && parent.flags.Has(types.FlagWowShare) {
		return k.parent
	}
	return cur
}

// symlinkTargetLocked reads and decodes a symlink key's sole meaningful
// value.
func (e *Engine) symlinkTargetLocked(k *Key) (string, error) {
	idx, ok := k.findValueIndex(types.SymbolicLinkValueName)
	if !ok {
		return "", types.New(types.ErrKindInvalidParameter, "symlink key %q missing SymbolicLinkValue", k.name)
	}
	v := k.values.at(idx)
	if v.Type != types.REG_LINK {
		return "", types.New(types.ErrKindInvalidParameter, "symlink key %q target has wrong type %s", k.name, v.Type)
	}
	return types.DecodeUTF16LEZero(v.Data), nil
}
