package hpsf

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Codepages with special handling.
const (
	CodepageUnicode = 1200
	CodepageUTF8    = 65001
	// CodepageDefault is assumed for 8-bit strings when a section has no
	// codepage property.
	CodepageDefault = 1252
)

var codepages = map[int]encoding.Encoding{
	CodepageUnicode: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	CodepageUTF8:    unicode.UTF8,
	437:             charmap.CodePage437,
	850:             charmap.CodePage850,
	852:             charmap.CodePage852,
	866:             charmap.CodePage866,
	874:             charmap.Windows874,
	1250:            charmap.Windows1250,
	1251:            charmap.Windows1251,
	1252:            charmap.Windows1252,
	1253:            charmap.Windows1253,
	1254:            charmap.Windows1254,
	1255:            charmap.Windows1255,
	1256:            charmap.Windows1256,
	1257:            charmap.Windows1257,
	1258:            charmap.Windows1258,
	10000:           charmap.Macintosh,
	28591:           charmap.ISO8859_1,
	28592:           charmap.ISO8859_2,
	28593:           charmap.ISO8859_3,
	28594:           charmap.ISO8859_4,
	28595:           charmap.ISO8859_5,
	28596:           charmap.ISO8859_6,
	28597:           charmap.ISO8859_7,
	28598:           charmap.ISO8859_8,
	28599:           charmap.ISO8859_9,
	28600:           charmap.ISO8859_10,
	28603:           charmap.ISO8859_13,
	28604:           charmap.ISO8859_14,
	28605:           charmap.ISO8859_15,
}

func codepageEncoding(cp int) (encoding.Encoding, error) {
	if cp < 0 {
		cp = CodepageDefault
	}
	enc, ok := codepages[cp]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCodepage, cp)
	}
	return enc, nil
}

// decodeString converts bytes in codepage cp to a string, cutting it at the
// first NUL.
func decodeString(b []byte, cp int) (string, error) {
	enc, err := codepageEncoding(cp)
	if err != nil {
		return "", err
	}
	s, err := enc.NewDecoder().String(string(b))
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return s, nil
}

// encodeString converts s to codepage cp and appends the NUL terminator.
// Characters the codepage cannot represent are replaced.
func encodeString(s string, cp int) ([]byte, error) {
	enc, err := codepageEncoding(cp)
	if err != nil {
		return nil, err
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).String(s + "\x00")
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// IsSupportedCodepage reports whether strings in cp can be decoded.
func IsSupportedCodepage(cp int) bool {
	_, ok := codepages[cp]
	return ok
}
