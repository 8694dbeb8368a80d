package types

import (
	"encoding/binary"
	"unicode/utf16"
)

// EncodeUTF16LEZero encodes s as zero-terminated UTF-16LE, the wire form
// REG_SZ/REG_EXPAND_SZ/REG_LINK values carry (grounded on hivekit's
// internal/regtext encodeUTF16LEZeroTerminated).
func EncodeUTF16LEZero(s string) []byte {
	words := utf16.Encode([]rune(s))
	buf := make([]byte, (len(words)+1)*2)
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[i*2:], w)
	}
	return buf
}

// DecodeUTF16LEZero decodes zero-terminated (or not) UTF-16LE bytes back to
// a Go string, stopping at the first NUL code unit if one is present.
func DecodeUTF16LEZero(data []byte) string {
	n := len(data) / 2
	words := make([]uint16, 0, n)
	for i := 0; i < n; i++ {
		w := binary.LittleEndian.Uint16(data[i*2:])
		if w == 0 {
			break
		}
		words = append(words, w)
	}
	return string(utf16.Decode(words))
}

// EncodeMultiString encodes a REG_MULTI_SZ: each string zero-terminated,
// the whole sequence terminated by an extra NUL code unit.
func EncodeMultiString(values []string) []byte {
	var out []byte
	for _, v := range values {
		out = append(out, EncodeUTF16LEZero(v)...)
	}
	out = append(out, 0, 0)
	return out
}

// DecodeMultiString splits a REG_MULTI_SZ payload back into strings.
func DecodeMultiString(data []byte) []string {
	var out []string
	n := len(data) / 2
	words := make([]uint16, 0, n)
	for i := 0; i < n; i++ {
		w := binary.LittleEndian.Uint16(data[i*2:])
		if w == 0 {
			if len(words) == 0 {
				break
			}
			out = append(out, string(utf16.Decode(words)))
			words = words[:0]
			continue
		}
		words = append(words, w)
	}
	if len(words) > 0 {
		out = append(out, string(utf16.Decode(words)))
	}
	return out
}
