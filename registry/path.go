package registry

import (
	"strings"

	"github.com/joshuapare/hivekit/pkg/types"
)

// maxOpenPathLen is the open_key path length cap, in wide characters;
// we count runes as a stand-in for UTF-16 code units. This is a
// whole-path cap independent of Limits.MaxKeyNameLen, which bounds one
// segment.
const maxOpenPathLen = 65533

// tokenize splits a backslash-separated path into non-empty segments,
// collapsing runs of backslashes between segments. A leading backslash is
// rejected by the caller before tokenize is reached.
func tokenize(path string) []string {
	if path == "" {
		return nil
	}
	raw := strings.Split(path, `\`)
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// compareNamesFold orders names case-insensitively: a memwise compare of
// the shorter length, tie-broken by length.
func compareNamesFold(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		ca, cb := foldByte(a[i]), foldByte(b[i])
		if ca != cb {
			if ca < cb {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func foldByte(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func equalFold(a, b string) bool {
	return len(a) == len(b) && compareNamesFold(a, b) == 0
}

// validatePathPrefix rejects a leading backslash.
func validatePathPrefix(path string) error {
	if strings.HasPrefix(path, `\`) {
		return types.ErrPathInvalid
	}
	return nil
}
