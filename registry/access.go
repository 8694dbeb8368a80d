package registry

// AccessMask is a registry access-rights bitmask. Only
// the bits the engine itself inspects are modeled; unrecognized bits pass
// through untouched, mirroring the source's documented behavior of mapping
// only the generic rights and the WoW64 view selectors.
type AccessMask uint32

const (
	KeyQueryValue       AccessMask = 0x0001
	KeySetValue         AccessMask = 0x0002
	KeyCreateSubKey     AccessMask = 0x0004
	KeyEnumerateSubKeys AccessMask = 0x0008
	KeyNotify           AccessMask = 0x0010
	KeyCreateLink       AccessMask = 0x0020

	KeyRead    AccessMask = KeyQueryValue | KeyEnumerateSubKeys | KeyNotify
	KeyWrite   AccessMask = KeySetValue | KeyCreateSubKey
	KeyExecute AccessMask = KeyRead

	KeyAllAccess AccessMask = 0xF003F

	GenericRead    AccessMask = 1 << 31
	GenericWrite   AccessMask = 1 << 30
	GenericExecute AccessMask = 1 << 29
	GenericAll     AccessMask = 1 << 28

	Wow6464Key AccessMask = 0x0100
	Wow6432Key AccessMask = 0x0200
)

// MapGenericAccess translates the four generic-rights bits to their
// concrete KEY_* equivalents and clears both the generic bits and the
// WoW64 view-selector bits from the effective mask.
func MapGenericAccess(mask AccessMask) AccessMask {
	var out AccessMask
	if mask&GenericRead != 0 {
		out |= KeyRead
	}
	if mask&GenericWrite != 0 {
		out |= KeyWrite
	}
	if mask&GenericExecute != 0 {
		out |= KeyExecute
	}
	if mask&GenericAll != 0 {
		out |= KeyAllAccess
	}
	out |= mask &^ (GenericRead | GenericWrite | GenericExecute | GenericAll)
	out &^= Wow6464Key | Wow6432Key
	return out
}

// WantsWow64View reports whether a request gets the 32-bit (WoW64) view,
// used by the dispatcher to derive types.LookupAttr.Wow64: false if the raw
// (pre-mapping) mask carries KEY_WOW64_64KEY, true if it carries
// KEY_WOW64_32KEY, and otherwise true only for a 32-bit caller on a 64-bit
// prefix.
func WantsWow64View(mask AccessMask, callerIs32Bit, prefixIs64Bit bool) bool {
	if mask&Wow6464Key != 0 {
		return false
	}
	if mask&Wow6432Key != 0 {
		return true
	}
	return callerIs32Bit && prefixIs64Bit
}
