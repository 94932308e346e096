package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is wrapped by every error returned from Parse
var ErrSyntax = errors.New("literal syntax error")

// SyntaxError reports where in the input parsing failed
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("literal: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Tuple is one element of a parsed array of arrays
type Tuple []any

// Parse parses a single literal value.
//
// Values map to Go as follows: strings to string, integers to int64, other
// numbers to float64, booleans to bool, null/None/undefined to nil, and
// arrays or tuples to []any.
func Parse(src string) (any, error) {
	p := &parser{src: src}
	p.skipSpace()
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q after value", p.src[p.pos])
	}
	return v, nil
}

// ParseTuples parses an array literal whose elements are themselves arrays
func ParseTuples(src string) ([]Tuple, error) {
	v, err := Parse(src)
	if err != nil {
		return nil, err
	}

	outer, ok := v.([]any)
	if !ok {
		return nil, &SyntaxError{Offset: 0, Msg: "expected array"}
	}

	tuples := make([]Tuple, 0, len(outer))
	for i, elem := range outer {
		inner, ok := elem.([]any)
		if !ok {
			return nil, &SyntaxError{Offset: 0, Msg: fmt.Sprintf("element %d is %T, expected array", i, elem)}
		}
		tuples = append(tuples, Tuple(inner))
	}
	return tuples, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace skips whitespace and JavaScript comments
func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case strings.HasPrefix(p.src[p.pos:], "//"):
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 1
		case strings.HasPrefix(p.src[p.pos:], "/*"):
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
				return
			}
			p.pos += end + 4
		default:
			return
		}
	}
}

func (p *parser) value() (any, error) {
	if p.pos >= len(p.src) {
		return nil, p.errorf("unexpected end of input")
	}

	switch c := p.src[p.pos]; {
	case c == '[':
		items, _, err := p.sequence('[', ']')
		return items, err
	case c == '(':
		return p.group()
	case c == '"' || c == '\'':
		return p.str()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return p.keyword()
	}
}

// group parses a parenthesised value. Without a comma it is grouping, so
// (1) is 1 while (1,) and () are tuples.
func (p *parser) group() (any, error) {
	items, comma, err := p.sequence('(', ')')
	if err != nil {
		return nil, err
	}
	if len(items) == 1 && !comma {
		return items[0], nil
	}
	return items, nil
}

// sequence parses items up to close and reports whether any comma was seen
func (p *parser) sequence(open, close byte) ([]any, bool, error) {
	p.pos++ // open
	items := make([]any, 0)
	comma := false

	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, false, p.errorf("unterminated %q", open)
		}
		if p.src[p.pos] == close {
			p.pos++
			return items, comma, nil
		}

		v, err := p.value()
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)

		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, false, p.errorf("unterminated %q", open)
		}
		switch p.src[p.pos] {
		case ',':
			comma = true
			p.pos++
		case close:
			p.pos++
			return items, comma, nil
		default:
			return nil, false, p.errorf("expected ',' or %q, got %q", close, p.src[p.pos])
		}
	}
}

func (p *parser) str() (string, error) {
	quote := p.src[p.pos]
	start := p.pos
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return "", p.errorf("newline in string")
		case c == '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}

	p.pos = start
	return "", p.errorf("unterminated string")
}

// escape decodes one backslash escape. Unknown escapes are kept verbatim.
func (p *parser) escape(b *strings.Builder) error {
	if p.pos+1 >= len(p.src) {
		return p.errorf("unterminated escape")
	}
	c := p.src[p.pos+1]
	p.pos += 2

	switch c {
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
	case '0':
		b.WriteByte(0)
	case '\\', '\'', '"', '/':
		b.WriteByte(c)
	case '\n':
		// line continuation
	case 'x':
		return p.hexEscape(b, 2)
	case 'u':
		return p.hexEscape(b, 4)
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (p *parser) hexEscape(b *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return p.errorf("short hex escape")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil {
		return p.errorf("invalid hex escape %q", p.src[p.pos:p.pos+digits])
	}
	p.pos += digits
	b.WriteRune(rune(n))
	return nil
}

func (p *parser) number() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' || c == '_' {
			p.pos++
			continue
		}
		break
	}

	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		if hasLeadingZero(text) {
			p.pos = start
			return nil, p.errorf("leading zeros in integer %q", text)
		}
		return i, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		p.pos = start
		return nil, p.errorf("invalid number %q", text)
	}
	return f, nil
}

// hasLeadingZero reports an integer like 007. Zero itself, written as 0 or
// 00, is allowed.
func hasLeadingZero(text string) bool {
	digits := strings.TrimLeft(text, "+-")
	return len(digits) > 1 && digits[0] == '0' && strings.Trim(digits, "0") != ""
}

var keywords = map[string]any{
	"true":      true,
	"false":     false,
	"True":      true,
	"False":     false,
	"null":      nil,
	"None":      nil,
	"undefined": nil,
}

func (p *parser) keyword() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' {
			p.pos++
			continue
		}
		break
	}

	word := p.src[start:p.pos]
	v, ok := keywords[word]
	if !ok {
		p.pos = start
		if word == "" {
			return nil, p.errorf("unexpected %q", p.src[p.pos])
		}
		return nil, p.errorf("unknown identifier %q", word)
	}
	return v, nil
}
