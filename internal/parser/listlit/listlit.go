// Package listlit decodes and encodes the bracketed list literal used by the
// source dataset for multi-valued cells, e.g.
//
//	['Christopher Nolan', '| ', '    Stars:', 'Cillian Murphy, ', 'Emily Blunt']
//
// The accepted grammar is a flat list of single- or double-quoted strings with
// backslash escapes, bare numbers, and the keywords None, True and False
// (which decode to their literal spelling). Adjacent string literals are
// concatenated. Nested lists, tuples and prefixed strings are rejected.
package listlit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrSyntax wraps every decode failure.
var ErrSyntax = errors.New("listlit: invalid list literal")

// Decode parses s into its ordered string elements.
func Decode(s string) ([]string, error) {
	d := decoder{src: s}
	return d.list()
}

type decoder struct {
	src string
	pos int
}

func (d *decoder) errorf(format string, a ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, d.pos, fmt.Sprintf(format, a...))
}

func (d *decoder) skipSpace() {
	for d.pos < len(d.src) {
		r, n := utf8.DecodeRuneInString(d.src[d.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		d.pos += n
	}
}

func (d *decoder) peek() byte {
	if d.pos >= len(d.src) {
		return 0
	}
	return d.src[d.pos]
}

func (d *decoder) list() ([]string, error) {
	d.skipSpace()
	if d.peek() != '[' {
		return nil, d.errorf("expected '['")
	}
	d.pos++

	out := []string{}
	for {
		d.skipSpace()
		if d.peek() == ']' {
			d.pos++
			break
		}
		elem, err := d.element()
		if err != nil {
			return nil, err
		}
		out = append(out, elem)

		d.skipSpace()
		switch d.peek() {
		case ',':
			d.pos++
		case ']':
			// closed on the next iteration
		default:
			return nil, d.errorf("expected ',' or ']'")
		}
	}

	d.skipSpace()
	if d.pos != len(d.src) {
		return nil, d.errorf("trailing data")
	}
	return out, nil
}

func (d *decoder) element() (string, error) {
	switch c := d.peek(); {
	case c == '\'' || c == '"':
		var b strings.Builder
		for {
			s, err := d.quoted()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
			d.skipSpace()
			if c := d.peek(); c != '\'' && c != '"' {
				return b.String(), nil
			}
		}
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return d.number()
	case c >= 'A' && c <= 'Z':
		return d.keyword()
	case c == 0:
		return "", d.errorf("unexpected end of input")
	default:
		return "", d.errorf("unexpected %q", c)
	}
}

func (d *decoder) keyword() (string, error) {
	start := d.pos
	for d.pos < len(d.src) && isIdent(d.src[d.pos]) {
		d.pos++
	}
	switch w := d.src[start:d.pos]; w {
	case "None", "True", "False":
		return w, nil
	default:
		d.pos = start
		return "", d.errorf("unknown name %q", w)
	}
}

func isIdent(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (d *decoder) number() (string, error) {
	start := d.pos
	for d.pos < len(d.src) {
		c := d.src[d.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' || c == '_' {
			d.pos++
			continue
		}
		break
	}
	lit := d.src[start:d.pos]
	if _, err := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64); err != nil {
		d.pos = start
		return "", d.errorf("bad number %q", lit)
	}
	return lit, nil
}

func (d *decoder) quoted() (string, error) {
	q := d.src[d.pos]
	d.pos++

	var b strings.Builder
	for d.pos < len(d.src) {
		c := d.src[d.pos]
		switch {
		case c == q:
			d.pos++
			return b.String(), nil
		case c == '\n':
			return "", d.errorf("newline in string")
		case c == '\\':
			if err := d.escape(&b); err != nil {
				return "", err
			}
		default:
			r, n := utf8.DecodeRuneInString(d.src[d.pos:])
			b.WriteRune(r)
			d.pos += n
		}
	}
	return "", d.errorf("unterminated string")
}

func (d *decoder) escape(b *strings.Builder) error {
	d.pos++ // backslash
	if d.pos >= len(d.src) {
		return d.errorf("dangling escape")
	}
	c := d.src[d.pos]
	d.pos++
	switch c {
	case '\\', '\'', '"':
		b.WriteByte(c)
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '0':
		b.WriteByte(0)
	case '\n':
		// line continuation
	case 'x':
		return d.hexRune(b, 2)
	case 'u':
		return d.hexRune(b, 4)
	case 'U':
		return d.hexRune(b, 8)
	default:
		// unknown escapes are kept verbatim
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (d *decoder) hexRune(b *strings.Builder, digits int) error {
	if d.pos+digits > len(d.src) {
		return d.errorf("short hex escape")
	}
	n, err := strconv.ParseUint(d.src[d.pos:d.pos+digits], 16, 32)
	if err != nil || n > unicode.MaxRune {
		return d.errorf("bad hex escape")
	}
	d.pos += digits
	b.WriteRune(rune(n))
	return nil
}

// Encode renders items as a list literal that Decode accepts. Strings are
// quoted the way the source dataset quotes them: single quotes, switching to
// double quotes when the text contains a single quote and no double quote.
func Encode(items []string) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, s := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		writeQuoted(&b, s)
	}
	b.WriteByte(']')
	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteByte(q)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == utf8.RuneError || !unicode.IsPrint(r):
			switch {
			case r < 0x100:
				fmt.Fprintf(b, `\x%02x`, r)
			case r < 0x10000:
				fmt.Fprintf(b, `\u%04x`, r)
			default:
				fmt.Fprintf(b, `\U%08x`, r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
}
