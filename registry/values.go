package registry

import (
	"bytes"

	"github.com/joshuapare/hivekit/pkg/types"
)

// SetValue sets or replaces a named value on id. If a
// value with the same name already has identical (type, len, bytes), the
// call is a no-op and does not dirty the key. Symlink keys accept only the
// SymbolicLinkValue/REG_LINK pair.
func (e *Engine) SetValue(id types.KeyID, name string, typ types.RegType, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len([]rune(name)) > e.limits.MaxValueNameLen {
		return types.ErrNameTooLong
	}
	if len(data) > e.limits.MaxValueSize {
		return types.ErrInvalidParam
	}
	k := e.get(id)
	if k == nil {
		return types.ErrNotFound
	}
	if k.flags.Has(types.FlagDeleted) {
		return types.ErrKeyDeleted
	}
	if k.flags.Has(types.FlagSymlink) && (name != types.SymbolicLinkValueName || typ != types.REG_LINK) {
		return types.ErrAccessDenied
	}

	idx, ok := k.findValueIndex(name)
	if ok {
		existing := k.values.at(idx)
		if existing.Type == typ && bytes.Equal(existing.Data, data) {
			return nil
		}
		cp := make([]byte, len(data))
		copy(cp, data)
		k.values.set(idx, Value{Name: name, Type: typ, Data: cp})
		e.touch(id, types.ChangeLastSet)
		return nil
	}

	if k.values.len() >= e.limits.MaxValues {
		return types.ErrInvalidParam
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	insertIdx, _ := binarySearch(k.values, func(v Value) int { return compareNamesFold(v.Name, name) })
	k.values.insertAt(insertIdx, Value{Name: name, Type: typ, Data: cp})
	e.touch(id, types.ChangeLastSet)
	return nil
}

// GetValue returns the named value's type and data. A
// missing value yields ErrNotFound with the type set to RegInvalid.
func (e *Engine) GetValue(id types.KeyID, name string) (types.RegType, []byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.RegInvalid, nil, types.ErrNotFound
	}
	if k.flags.Has(types.FlagDeleted) {
		return types.RegInvalid, nil, types.ErrKeyDeleted
	}
	idx, ok := k.findValueIndex(name)
	if !ok {
		return types.RegInvalid, nil, types.ErrNotFound
	}
	v := k.values.at(idx)
	out := make([]byte, len(v.Data))
	copy(out, v.Data)
	return v.Type, out, nil
}

// DeleteValue removes the named value.
func (e *Engine) DeleteValue(id types.KeyID, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.ErrNotFound
	}
	if k.flags.Has(types.FlagDeleted) {
		return types.ErrKeyDeleted
	}
	idx, ok := k.findValueIndex(name)
	if !ok {
		return types.ErrNotFound
	}
	k.values.removeAt(idx)
	e.touch(id, types.ChangeLastSet)
	return nil
}

// EnumValue returns metadata (and, depending on infoClass, data) for the
// value at index on key id. Index == value count
// yields NO_MORE_ENTRIES.
func (e *Engine) EnumValue(id types.KeyID, index int, infoClass types.ValueInfoClass) (types.ValueMeta, []byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return types.ValueMeta{}, nil, types.ErrNotFound
	}
	if k.flags.Has(types.FlagDeleted) {
		return types.ValueMeta{}, nil, types.ErrKeyDeleted
	}
	if index < 0 || index >= k.values.len() {
		return types.ValueMeta{}, nil, types.ErrNoMoreEntries
	}
	v := k.values.at(index)
	meta := v.meta()
	switch infoClass {
	case types.ValueInfoBasic:
		return meta, nil, nil
	case types.ValueInfoFull:
		out := make([]byte, len(v.Data))
		copy(out, v.Data)
		return meta, out, nil
	case types.ValueInfoPartial:
		out := make([]byte, len(v.Data))
		copy(out, v.Data)
		return types.ValueMeta{Size: meta.Size}, out, nil
	default:
		return types.ValueMeta{}, nil, types.ErrInvalidParam
	}
}

// Values returns a snapshot of every value currently on id, used by the
// text persister and export tooling.
func (e *Engine) Values(id types.KeyID) ([]Value, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.get(id)
	if k == nil {
		return nil, types.ErrNotFound
	}
	out := make([]Value, k.values.len())
	for i, v := range k.values.slice() {
		cp := make([]byte, len(v.Data))
		copy(cp, v.Data)
		out[i] = Value{Name: v.Name, Type: v.Type, Data: cp}
	}
	return out, nil
}
