package jsast

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// UnquoteString decodes a JavaScript string literal including its quotes.
// Malformed escapes are kept verbatim rather than rejected, since tree-sitter
// already accepted the literal.
func UnquoteString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			i++
			continue
		}
		next := body[i+1]
		i += 2
		switch next {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\r':
			// line continuation, optionally \r\n
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if r, ok := parseHex(body, i, 2); ok {
				b.WriteRune(r)
				i += 2
			} else {
				b.WriteString(`\x`)
			}
		case 'u':
			r, n := parseUnicodeEscape(body, i)
			if n == 0 {
				b.WriteString(`\u`)
				break
			}
			i += n
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i:], `\u`) {
				if lo, m := parseUnicodeEscape(body, i+2); m > 0 {
					if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
						b.WriteRune(pair)
						i += 2 + m
						break
					}
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(next)
		}
	}
	return b.String()
}

// parseUnicodeEscape parses XXXX or {X...} at body[i:], returning the rune and
// the number of bytes consumed (0 when malformed).
func parseUnicodeEscape(body string, i int) (rune, int) {
	if i < len(body) && body[i] == '{' {
		end := strings.IndexByte(body[i:], '}')
		if end < 2 {
			return 0, 0
		}
		v, err := strconv.ParseUint(body[i+1:i+end], 16, 32)
		if err != nil || v > unicode10FFFF {
			return 0, 0
		}
		return rune(v), end + 1
	}
	if r, ok := parseHex(body, i, 4); ok {
		return r, 4
	}
	return 0, 0
}

const unicode10FFFF = 0x10FFFF

func parseHex(s string, i, n int) (rune, bool) {
	if i+n > len(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(s[i:i+n], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// ParseNumber evaluates a JavaScript numeric literal: decimal, exponent,
// 0x/0o/0b prefixes, legacy leading-zero octal, `_` separators and BigInt `n`.
func ParseNumber(raw string) (float64, bool) {
	s := strings.ReplaceAll(raw, "_", "")
	s = strings.TrimSuffix(s, "n")
	if len(s) > 1 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseInteger(s[2:], base)
		}
		if isLegacyOctal(s) {
			return parseInteger(s[1:], 8)
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeError(err) {
		return 0, false
	}
	return v, true
}

func parseInteger(digits string, base int) (float64, bool) {
	if digits == "" {
		return 0, false
	}
	var v float64
	for _, c := range digits {
		d, err := strconv.ParseUint(string(c), base, 8)
		if err != nil {
			return 0, false
		}
		v = v*float64(base) + float64(d)
	}
	return v, true
}

func isLegacyOctal(s string) bool {
	for _, c := range s[1:] {
		if c < '0' || c > '7' {
			return false
		}
	}
	return true
}

func isRangeError(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// FormatNumber renders v the way JavaScript's String(v) does.
func FormatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	case v < 0:
		return "-" + FormatNumber(-v)
	}

	// Shortest round-trip digits and decimal exponent: d.ddde±x.
	sci := strconv.FormatFloat(v, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(sci, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)
	k := len(digits)
	n := exp + 1

	switch {
	case k <= n && n <= 21:
		return digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return "0." + strings.Repeat("0", -n) + digits
	}

	sign := "+"
	if n-1 < 0 {
		sign = "-"
	}
	e := strconv.Itoa(abs(n - 1))
	if k == 1 {
		return digits + "e" + sign + e
	}
	return digits[:1] + "." + digits[1:] + "e" + sign + e
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
