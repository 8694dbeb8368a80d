package regtext

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// lineScanner yields logical lines from a WINE .reg stream, joining
// hexbytes line-continuations ("\" at end of line, continued on the next
// with leading indentation) into a single logical line before the parser
// ever sees them (the hexbytes production in the format grammar).
type lineScanner struct {
	sc  *bufio.Scanner
	err error
}

// newLineScanner wraps r with a tolerant-decode fallback: well-formed UTF-8
// passes through untouched; a stream whose first ScannerInitialBufferSize
// bytes fail to validate as UTF-8 is
// assumed to carry legacy single-byte bytes (as WINE's own registry save
// historically emitted for class names and string payloads outside the
// ASCII range) and is transcoded from Windows-1252 on the fly.
func newLineScanner(r io.Reader) *lineScanner {
	br := bufio.NewReaderSize(r, ScannerInitialBufferSize)
	peek, _ := br.Peek(ScannerInitialBufferSize)
	// A multi-byte rune cut off by the end of the peek window is not an
	// encoding error: drop its leading bytes before validating.
	if len(peek) == ScannerInitialBufferSize {
		for i := 1; i < utf8.UTFMax && i <= len(peek); i++ {
			if utf8.RuneStart(peek[len(peek)-i]) {
				if !utf8.FullRune(peek[len(peek)-i:]) {
					peek = peek[:len(peek)-i]
				}
				break
			}
		}
	}
	var src io.Reader = br
	if !utf8.Valid(peek) {
		src = transform.NewReader(br, charmap.Windows1252.NewDecoder())
	}
	sc := bufio.NewScanner(src)
	buf := make([]byte, 0, ScannerInitialBufferSize)
	sc.Buffer(buf, ScannerMaxLineSize)
	return &lineScanner{sc: sc}
}

// next returns the next logical line with any continuations joined in, and
// false once the stream is exhausted.
func (s *lineScanner) next() (string, bool) {
	if !s.sc.Scan() {
		s.err = s.sc.Err()
		return "", false
	}
	line := s.sc.Text()
	for isContinued(line) {
		if !s.sc.Scan() {
			break
		}
		cont := strings.TrimLeft(s.sc.Text(), " \t")
		line = strings.TrimSuffix(strings.TrimRight(line, " \t"), Backslash) + cont
	}
	return line, true
}

func (s *lineScanner) Err() error { return s.err }

// isContinued reports whether line ends in a lone (unescaped) backslash,
// i.e. it continues onto the next line. A trailing escaped backslash
// ("\\\\") is not a continuation.
func isContinued(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if !strings.HasSuffix(trimmed, Backslash) {
		return false
	}
	return !strings.HasSuffix(trimmed, Backslash+Backslash)
}
