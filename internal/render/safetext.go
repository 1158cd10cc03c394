package render

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// SafeText is text already encoded in the Windows-1252 repertoire of the PDF
// core fonts. The only way to build one is through Sanitize or Safef, so
// every string that reaches the page has been filtered.
type SafeText struct {
	encoded string
}

// Sanitize NFC-normalises s and encodes it as Windows-1252, silently dropping
// every rune the encoding cannot represent and every control character other
// than newline and tab. It is total and pure.
func Sanitize(s string) SafeText {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' {
			b.WriteByte(byte(r))
			continue
		}
		if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
			continue
		}
		if enc, ok := charmap.Windows1252.EncodeRune(r); ok {
			b.WriteByte(enc)
		}
	}
	return SafeText{encoded: b.String()}
}

// Safef formats according to format and sanitizes the result
func Safef(format string, args ...interface{}) SafeText {
	return Sanitize(fmt.Sprintf(format, args...))
}

// Bytes returns the Windows-1252 encoded text as handed to the PDF writer
func (t SafeText) Bytes() []byte {
	return []byte(t.encoded)
}

// String decodes the text back to UTF-8
func (t SafeText) String() string {
	decoded, err := charmap.Windows1252.NewDecoder().String(t.encoded)
	if err != nil {
		return t.encoded
	}
	return decoded
}

// Empty reports whether nothing printable is left
func (t SafeText) Empty() bool {
	return t.encoded == ""
}

func (t SafeText) raw() string {
	return t.encoded
}
