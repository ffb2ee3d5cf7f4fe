package jsonutil

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseFlatObject parses a single top-level JSON object whose values are
// string/number/bool/null, skipping over any nested object/array values.
// Returned numbers are float64; callers needing ints round-trip through
// that.
func ParseFlatObject(s string) (map[string]any, error) {
	p := &parser{s: s}
	p.skipSpace()
	if !p.consume('{') {
		return nil, fmt.Errorf("jsonutil: expected '{' at start of object")
	}
	out := map[string]any{}
	p.skipSpace()
	if p.consume('}') {
		return out, nil
	}
	for {
		p.skipSpace()
		key, err := p.parseString()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(':') {
			return nil, fmt.Errorf("jsonutil: expected ':' after key %q", key)
		}
		p.skipSpace()
		val, skipped, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if !skipped {
			out[key] = val
		}
		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			break
		}
		return nil, fmt.Errorf("jsonutil: expected ',' or '}' after value for %q", key)
	}
	return out, nil
}

type parser struct {
	s   string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) consume(c byte) bool {
	if p.pos < len(p.s) && p.s[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

// parseValue returns (value, skipped, err). skipped is true for nested
// object/array values, which are consumed (brace/bracket-counted, string-
// aware) but not decoded.
func (p *parser) parseValue() (any, bool, error) {
	switch c := p.peek(); {
	case c == '"':
		s, err := p.parseString()
		return s, false, err
	case c == '{' || c == '[':
		if err := p.skipNested(); err != nil {
			return nil, true, err
		}
		return nil, true, nil
	case c == 't':
		if strings.HasPrefix(p.s[p.pos:], "true") {
			p.pos += 4
			return true, false, nil
		}
	case c == 'f':
		if strings.HasPrefix(p.s[p.pos:], "false") {
			p.pos += 5
			return false, false, nil
		}
	case c == 'n':
		if strings.HasPrefix(p.s[p.pos:], "null") {
			p.pos += 4
			return nil, false, nil
		}
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	}
	return nil, false, fmt.Errorf("jsonutil: unexpected character %q at offset %d", p.peek(), p.pos)
}

func (p *parser) parseNumber() (any, bool, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	for p.pos < len(p.s) && isNumberByte(p.s[p.pos]) {
		p.pos++
	}
	text := p.s[start:p.pos]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false, fmt.Errorf("jsonutil: invalid number %q: %w", text, err)
	}
	return v, false, nil
}

func isNumberByte(c byte) bool {
	switch c {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.', 'e', 'E', '+', '-':
		return true
	}
	return false
}

func (p *parser) parseString() (string, error) {
	if !p.consume('"') {
		return "", fmt.Errorf("jsonutil: expected string at offset %d", p.pos)
	}
	var b strings.Builder
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' {
			p.pos++
			if p.pos >= len(p.s) {
				break
			}
			switch p.s[p.pos] {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '/':
				b.WriteByte('/')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if p.pos+4 < len(p.s) {
					code, err := strconv.ParseUint(p.s[p.pos+1:p.pos+5], 16, 32)
					if err == nil {
						var rb [utf8.UTFMax]byte
						n := utf8.EncodeRune(rb[:], rune(code))
						b.Write(rb[:n])
						p.pos += 4
					}
				}
			default:
				b.WriteByte(p.s[p.pos])
			}
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("jsonutil: unterminated string")
}

// skipNested consumes a balanced {...} or [...] value, string-aware so
// braces/brackets inside quoted strings don't confuse the depth count.
func (p *parser) skipNested() error {
	open := p.s[p.pos]
	var close byte
	if open == '{' {
		close = '}'
	} else {
		close = ']'
	}
	depth := 0
	for p.pos < len(p.s) {
		c := p.s[p.pos]
		switch {
		case c == '"':
			if _, err := p.parseString(); err != nil {
				return err
			}
			continue
		case c == open:
			depth++
		case c == close:
			depth--
			p.pos++
			if depth == 0 {
				return nil
			}
			continue
		}
		p.pos++
	}
	return fmt.Errorf("jsonutil: unterminated nested value")
}
