package cfb

import (
	"strings"
	"unicode"
	"unicode/utf16"
)

const vbaProjectName = "_VBA_PROJECT"

// CompareNames orders sibling entries. Shorter names sort first; among names
// of equal length "_VBA_PROJECT" sorts last, names starting with "__" sort
// after the rest, and remaining ties compare case-insensitively.
func CompareNames(a, b string) int {
	ua, ub := utf16.Encode([]rune(a)), utf16.Encode([]rune(b))
	if d := len(ua) - len(ub); d != 0 {
		return d
	}

	switch {
	case a == vbaProjectName && b == vbaProjectName:
		return 0
	case a == vbaProjectName:
		return 1
	case b == vbaProjectName:
		return -1
	}

	da, db := strings.HasPrefix(a, "__"), strings.HasPrefix(b, "__")
	switch {
	case da && !db:
		return 1
	case db && !da:
		return -1
	}
	return compareFold(ua, ub)
}

// LegacyCompareNames is the ordering used by old writers: length first, then
// case-sensitive code unit order.
func LegacyCompareNames(a, b string) int {
	ua, ub := utf16.Encode([]rune(a)), utf16.Encode([]rune(b))
	if d := len(ua) - len(ub); d != 0 {
		return d
	}
	for i := range ua {
		if ua[i] != ub[i] {
			return int(ua[i]) - int(ub[i])
		}
	}
	return 0
}

// compareFold compares code units the way String.compareToIgnoreCase does:
// upper-case both, and if still different, lower-case both.
func compareFold(a, b []uint16) int {
	n := min(len(a), len(b))
	for i := range n {
		c1, c2 := rune(a[i]), rune(b[i])
		if c1 == c2 {
			continue
		}
		c1, c2 = unicode.ToUpper(c1), unicode.ToUpper(c2)
		if c1 == c2 {
			continue
		}
		c1, c2 = unicode.ToLower(c1), unicode.ToLower(c2)
		if c1 != c2 {
			return int(c1) - int(c2)
		}
	}
	return len(a) - len(b)
}
