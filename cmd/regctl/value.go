package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf16"
)

// regType mirrors types.RegType's numbering without
// importing the server's internal packages.
type regType uint32

const (
	regNone     regType = 0
	regSZ       regType = 1
	regExpandSZ regType = 2
	regBinary   regType = 3
	regDWORD    regType = 4
	regLink     regType = 6
	regMultiSZ  regType = 7
	regQWORD    regType = 11
)

var typeNames = map[string]regType{
	"none":      regNone,
	"sz":        regSZ,
	"expand_sz": regExpandSZ,
	"binary":    regBinary,
	"dword":     regDWORD,
	"link":      regLink,
	"multi_sz":  regMultiSZ,
	"qword":     regQWORD,
}

func parseRegType(name string) (regType, error) {
	t, ok := typeNames[name]
	if !ok {
		return 0, fmt.Errorf("unrecognized --type %q (want one of sz, expand_sz, binary, dword, qword, multi_sz, link)", name)
	}
	return t, nil
}

// encodeValue converts a CLI-supplied raw string into wire bytes for typ,
// the same encoding regtext uses on disk: UTF-16LE + NUL for string types,
// little-endian for numeric types, raw hex decode for binary.
func encodeValue(typ regType, raw string) ([]byte, error) {
	switch typ {
	case regSZ, regExpandSZ, regLink:
		return utf16LEZero(raw), nil
	case regMultiSZ:
		return utf16LEZero(raw), nil
	case regDWORD:
		n, err := strconv.ParseUint(raw, 0, 32)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		return buf, nil
	case regQWORD:
		n, err := strconv.ParseUint(raw, 0, 64)
		if err != nil {
			return nil, err
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, n)
		return buf, nil
	case regBinary:
		return hex.DecodeString(raw)
	default:
		return nil, fmt.Errorf("don't know how to encode type %d from a CLI argument", typ)
	}
}

func utf16LEZero(s string) []byte {
	units := utf16.Encode([]rune(s))
	buf := make([]byte, (len(units)+1)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(buf[i*2:], u)
	}
	return buf
}

func decodeUTF16LEZero(data []byte) string {
	units := make([]uint16, 0, len(data)/2)
	for i := 0; i+1 < len(data); i += 2 {
		u := binary.LittleEndian.Uint16(data[i:])
		if u == 0 {
			break
		}
		units = append(units, u)
	}
	return string(utf16.Decode(units))
}

func formatValue(typ regType, data []byte) string {
	switch typ {
	case regSZ, regExpandSZ, regLink, regMultiSZ:
		return decodeUTF16LEZero(data)
	case regDWORD:
		if len(data) >= 4 {
			return strconv.FormatUint(uint64(binary.LittleEndian.Uint32(data)), 10)
		}
	case regQWORD:
		if len(data) >= 8 {
			return strconv.FormatUint(binary.LittleEndian.Uint64(data), 10)
		}
	}
	return hex.EncodeToString(data)
}
