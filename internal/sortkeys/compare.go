package sortkeys

import (
	"cmp"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Order is the sort direction.
type Order string

const (
	Ascending  Order = "asc"
	Descending Order = "desc"
)

// ParseOrder validates an order name.
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case Ascending, Descending:
		return Order(s), nil
	default:
		return "", fmt.Errorf("order must be %q or %q, got %q", Ascending, Descending, s)
	}
}

// Options selects one of the eight comparators.
type Options struct {
	Order         Order
	CaseSensitive bool
	Natural       bool
}

// DefaultOptions is ascending, case-sensitive, lexicographic.
func DefaultOptions() Options {
	return Options{
		Order:         Ascending,
		CaseSensitive: true,
	}
}

// Comparator is a three-way comparison of two names.
type Comparator func(a, b Name) int

// NewComparator binds opts into a single comparison function. The returned
// comparator lowercases through a cases.Caser and must not be shared between
// goroutines.
func NewComparator(opts Options) Comparator {
	base := compareLexical
	if opts.Natural {
		base = compareNatural
	}

	asc := func(a, b Name) int {
		if a.numeric && b.numeric {
			return cmp.Compare(a.num, b.num)
		}
		return base(a.String(), b.String())
	}
	if !opts.CaseSensitive {
		lower := cases.Lower(language.Und)
		asc = func(a, b Name) int {
			if a.numeric && b.numeric {
				return cmp.Compare(a.num, b.num)
			}
			return base(lower.String(a.String()), lower.String(b.String()))
		}
	}

	if opts.Order == Descending {
		return func(a, b Name) int { return asc(b, a) }
	}
	return asc
}

// compareLexical orders strings by UTF-16 code units, as JavaScript's
// relational operators do.
func compareLexical(a, b string) int {
	for a != "" && b != "" {
		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra != rb {
			return compareRunes(ra, rb)
		}
		a, b = a[na:], b[nb:]
	}
	return cmp.Compare(len(a), len(b))
}

// compareRunes orders two distinct runes by their first UTF-16 code unit,
// falling back to code point order when both share a high surrogate.
func compareRunes(a, b rune) int {
	ua, ub := firstUnit(a), firstUnit(b)
	if ua != ub {
		return cmp.Compare(ua, ub)
	}
	return cmp.Compare(a, b)
}

func firstUnit(r rune) rune {
	if r < 0x10000 {
		return r
	}
	return 0xD800 + (r-0x10000)>>10
}

// compareNatural is compareLexical except that maximal runs of ASCII digits
// compare by numeric value. Equal values with different leading zeros order
// the shorter run first.
func compareNatural(a, b string) int {
	for a != "" && b != "" {
		if isDigit(a[0]) && isDigit(b[0]) {
			da, restA := digitRun(a)
			db, restB := digitRun(b)
			if c := compareDigits(da, db); c != 0 {
				return c
			}
			a, b = restA, restB
			continue
		}

		ra, na := utf8.DecodeRuneInString(a)
		rb, nb := utf8.DecodeRuneInString(b)
		if ra != rb {
			return compareRunes(ra, rb)
		}
		a, b = a[na:], b[nb:]
	}
	return cmp.Compare(len(a), len(b))
}

func compareDigits(a, b string) int {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if c := cmp.Compare(len(ta), len(tb)); c != 0 {
		return c
	}
	if c := strings.Compare(ta, tb); c != 0 {
		return c
	}
	return cmp.Compare(len(a), len(b))
}

func digitRun(s string) (run, rest string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
