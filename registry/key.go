package registry

import (
	"time"

	"github.com/joshuapare/hivekit/pkg/types"
)

// Value is a named typed blob living inside a key. The
// unnamed "default" value has an empty Name and sorts before all named
// values under compareNamesFold.
type Value struct {
	Name string
	Type types.RegType
	Data []byte
}

func (v Value) meta() types.ValueMeta {
	return types.ValueMeta{Name: v.Name, Type: v.Type, Size: len(v.Data)}
}

// childEntry is the (name, id) pair kept in a key's sorted children array;
// storing the name alongside the id lets binary search avoid dereferencing
// the arena on every comparison.
type childEntry struct {
	name string
	id   types.KeyID
}

// Key is a tree node: class string, ordered children, a value store, flags,
// a modification timestamp, and a parent back-reference.
// The parent link is non-owning; ownership flows the other way, from parent
// to children, so the tree is acyclic despite the back-pointer.
type Key struct {
	id       types.KeyID
	name     string
	class    string
	parent   types.KeyID
	children *orderedArray[childEntry]
	values   *orderedArray[Value]
	flags    types.Flags
	modif    uint64 // ticks since 1601
}

func newKey(id, parent types.KeyID, name string, flags types.Flags) *Key {
	return &Key{
		id:       id,
		name:     name,
		parent:   parent,
		children: newOrderedArray[childEntry](),
		values:   newOrderedArray[Value](),
		flags:    flags,
		modif:    types.Tick(time.Now()),
	}
}

func (k *Key) meta() types.KeyMeta {
	return types.KeyMeta{
		ID:          k.id,
		Name:        k.name,
		Class:       k.class,
		LastWrite:   types.TickToTime(k.modif),
		SubkeyCount: k.children.len(),
		ValueCount:  k.values.len(),
		Flags:       k.flags,
	}
}

// findChildIndex binary-searches this key's children for name.
func (k *Key) findChildIndex(name string) (int, bool) {
	return binarySearch(k.children, func(e childEntry) int {
		return compareNamesFold(e.name, name)
	})
}

// findValueIndex binary-searches this key's values for name.
func (k *Key) findValueIndex(name string) (int, bool) {
	return binarySearch(k.values, func(v Value) int {
		return compareNamesFold(v.Name, name)
	})
}
