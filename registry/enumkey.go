package registry

import (
	"strings"

	"github.com/joshuapare/hivekit/pkg/types"
)

// StatKey returns cheap metadata for id.
func (e *Engine) StatKey(id types.KeyID) (types.KeyMeta, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.KeyMeta{}, types.ErrNotFound
	}
	if k.flags.Has(types.FlagDeleted) {
		return types.KeyMeta{}, types.ErrKeyDeleted
	}
	return k.meta(), nil
}

// FullPath reconstructs the fully-qualified path of id by walking parent
// links to the root.
func (e *Engine) FullPath(id types.KeyID) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var segs []string
	cur := id
	for cur != types.InvalidKeyID {
		k := e.get(cur)
		if k == nil {
			return "", types.ErrNotFound
		}
		if cur == e.root {
			break
		}
		segs = append([]string{k.name}, segs...)
		cur = k.parent
	}
	return `\` + strings.Join(segs, `\`), nil
}

// Subkeys returns a snapshot of id's direct children, in sorted order.
func (e *Engine) Subkeys(id types.KeyID) ([]types.KeyID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return nil, types.ErrNotFound
	}
	out := make([]types.KeyID, k.children.len())
	for i, c := range k.children.slice() {
		out[i] = c.id
	}
	return out, nil
}

// EnumKey returns metadata for the child at index, per infoClass.
// Index == child count yields NO_MORE_ENTRIES.
func (e *Engine) EnumKey(id types.KeyID, index int, infoClass types.KeyInfoClass) (types.KeyMeta, string, error) {
	e.mu.Lock()
	k := e.get(id)
	if k == nil {
		e.mu.Unlock()
		return types.KeyMeta{}, "", types.ErrNotFound
	}
	if k.flags.Has(types.FlagDeleted) {
		e.mu.Unlock()
		return types.KeyMeta{}, "", types.ErrKeyDeleted
	}
	if index < 0 || index >= k.children.len() {
		e.mu.Unlock()
		return types.KeyMeta{}, "", types.ErrNoMoreEntries
	}
	childID := k.children.at(index).id
	child := e.get(childID)
	meta := child.meta()
	e.mu.Unlock()

	switch infoClass {
	case types.KeyInfoBasic:
		return types.KeyMeta{ID: meta.ID, Name: meta.Name}, "", nil
	case types.KeyInfoNode:
		return types.KeyMeta{ID: meta.ID, Name: meta.Name, Class: meta.Class}, "", nil
	case types.KeyInfoFull:
		return types.KeyMeta{
			SubkeyCount: meta.SubkeyCount,
			ValueCount:  meta.ValueCount,
			LastWrite:   meta.LastWrite,
			Flags:       meta.Flags,
		}, "", nil
	case types.KeyInfoCached:
		return meta, "", nil
	case types.KeyInfoName:
		full, err := e.FullPath(childID)
		if err != nil {
			return types.KeyMeta{}, "", err
		}
		return types.KeyMeta{ID: meta.ID, Name: meta.Name}, full, nil
	default:
		return types.KeyMeta{}, "", types.ErrInvalidParam
	}
}
