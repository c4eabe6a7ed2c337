// Package textutil holds the small string helpers shared by the bridge:
// trimming, ASCII case folding, name normalization, value escaping,
// quote-aware tokenization and C-style integer parsing.
//
// All helpers work on bytes and treat only ASCII as letters, digits and
// whitespace.
package textutil

import (
	"math"
	"strconv"
	"strings"
)

// asciiSpace is the C isspace set.
const asciiSpace = " \t\n\v\f\r"

// dialogBullet is the single-byte bullet some dialogue text is prefixed with.
const dialogBullet = 0x95

func isSpace(c byte) bool {
	return strings.IndexByte(asciiSpace, c) >= 0
}

func isAlnum(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func toLower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

// Trim strips leading and trailing ASCII whitespace.
func Trim(s string) string {
	return strings.Trim(s, asciiSpace)
}

// Lower folds ASCII letters to lower case and leaves every other byte alone.
func Lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		b[i] = toLower(c)
	}
	return string(b)
}

// NormalizeName keeps only ASCII letters and digits, lower-cased, so that
// "Small Guns", "small_guns" and "SMALLGUNS" compare equal.
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isAlnum(s[i]) {
			b.WriteByte(toLower(s[i]))
		}
	}
	return b.String()
}

// Escape renders newline and carriage return as the two-character sequences
// \n and \r so a value never breaks a report line.
func Escape(s string) string {
	if !strings.ContainsAny(s, "\n\r") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Tokenize splits line on ASCII whitespace. A single or double quote opens a
// quoted run that ends at the next quote of the same kind; inside it
// whitespace and the other quote character are literal. Quote characters that
// open or close a run are dropped, and empty tokens are never produced.
func Tokenize(line string) []string {
	var (
		tokens []string
		token  []byte
		quote  byte
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\'' || c == '"' {
			if quote == c {
				quote = 0
				continue
			}
			if quote == 0 {
				quote = c
				continue
			}
		}
		if quote == 0 && isSpace(c) {
			if len(token) > 0 {
				tokens = append(tokens, string(token))
				token = token[:0]
			}
			continue
		}
		token = append(token, c)
	}
	if len(token) > 0 {
		tokens = append(tokens, string(token))
	}
	return tokens
}

// JoinTokens joins tokens[first:] with single spaces, or returns "" when
// first is past the end.
func JoinTokens(tokens []string, first int) string {
	if first < 0 || first >= len(tokens) {
		return ""
	}
	return strings.Join(tokens[first:], " ")
}

// ParseInt parses s the way strtol does with base 0: optional leading
// whitespace and sign, then 0x for hex, a leading 0 for octal, otherwise
// decimal. The whole string must be consumed and the value must fit in 32
// bits.
func ParseInt(s string) (int, bool) {
	body := strings.TrimLeft(s, asciiSpace)
	neg := false
	if body != "" && (body[0] == '+' || body[0] == '-') {
		neg = body[0] == '-'
		body = body[1:]
	}
	if body == "" || body[0] == '+' || body[0] == '-' {
		return 0, false
	}

	base := 10
	switch {
	case len(body) > 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X'):
		base = 16
		body = body[2:]
	case len(body) > 1 && body[0] == '0':
		base = 8
		body = body[1:]
	}

	v, err := strconv.ParseUint(body, base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		if v > -math.MinInt32 {
			return 0, false
		}
		return -int(v), true
	}
	if v > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

// StripDialogPrefix removes leading whitespace and bullet glyphs (the 0x95
// byte and U+2022) from dialogue text.
func StripDialogPrefix(s string) string {
	for s != "" {
		switch {
		case isSpace(s[0]) || s[0] == dialogBullet:
			s = s[1:]
		case strings.HasPrefix(s, "•"):
			s = s[len("•"):]
		default:
			return s
		}
	}
	return s
}
