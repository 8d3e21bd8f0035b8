package regex

import (
	"fmt"
	"strconv"
)

// Parse compiles a pattern string into a regex AST, following the
// precedence union (lowest) -> concatenation -> postfix operator ->
// atom (highest) described in spec.md §4.1.
func Parse(pattern string) (Node, error) {
	p := &parser{pattern: pattern}
	node, err := p.parseUnion()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, newErr(ErrUnexpectedChar, p.pos, fmt.Sprintf("%q", p.current()))
	}
	return node, nil
}

type parser struct {
	pattern string
	pos     int
}

func (p *parser) atEnd() bool { return p.pos >= len(p.pattern) }

func (p *parser) current() byte {
	if p.atEnd() {
		return 0
	}
	return p.pattern[p.pos]
}

func (p *parser) peek(offset int) (byte, bool) {
	i := p.pos + offset
	if i < 0 || i >= len(p.pattern) {
		return 0, false
	}
	return p.pattern[i], true
}

func (p *parser) advance() { p.pos++ }

// parseUnion handles '|' alternation, the lowest-precedence operator.
func (p *parser) parseUnion() (Node, error) {
	left, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	for p.current() == '|' {
		p.advance()
		right, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		left = Union{Left: left, Right: right}
	}
	return left, nil
}

// parseConcat parses a run of postfixed atoms until ')' or '|' or EOF.
func (p *parser) parseConcat() (Node, error) {
	var factors []Node
	for !p.atEnd() && p.current() != ')' && p.current() != '|' {
		f, err := p.parsePostfix()
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	return concatAll(factors), nil
}

// parsePostfix applies zero or more of '*', '+', '?', '{m,n}' to an atom.
func (p *parser) parsePostfix() (Node, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch p.current() {
		case '*':
			p.advance()
			atom = Kleene{Inner: atom}
		case '+':
			p.advance()
			atom = Plus{Inner: atom}
		case '?':
			p.advance()
			atom = Option{Inner: atom}
		case '{':
			min, max, matched, err := p.tryParseRepetition()
			if err != nil {
				return nil, err
			}
			if !matched {
				return atom, nil
			}
			atom = Bounded{Inner: atom, Min: min, Max: max}
		default:
			return atom, nil
		}
	}
}

// tryParseRepetition consumes a '{m}', '{m,}' or '{m,n}' quantifier.
// If the text at the current position does not start with at least one
// digit after '{', it is not a repetition at all: the position is
// rewound and matched=false is returned so the caller treats '{' as a
// literal character. Once a digit has been seen, any further
// malformation (missing '}', or min > max) is a hard ErrInvalidRepetition.
func (p *parser) tryParseRepetition() (min int, max *int, matched bool, err error) {
	start := p.pos
	p.advance() // skip '{'

	minDigits := p.consumeDigits()
	if minDigits == "" {
		p.pos = start
		return 0, nil, false, nil
	}
	minVal, _ := strconv.Atoi(minDigits)

	switch p.current() {
	case '}':
		p.advance()
		m := minVal
		return minVal, &m, true, nil
	case ',':
		p.advance()
		maxDigits := p.consumeDigits()
		if maxDigits == "" {
			if p.current() != '}' {
				return 0, nil, true, newErr(ErrInvalidRepetition, start, "expected '}'")
			}
			p.advance()
			return minVal, nil, true, nil
		}
		maxVal, _ := strconv.Atoi(maxDigits)
		if p.current() != '}' {
			return 0, nil, true, newErr(ErrInvalidRepetition, start, "expected '}'")
		}
		p.advance()
		if minVal > maxVal {
			return 0, nil, true, newErr(ErrInvalidRepetition, start,
				fmt.Sprintf("min %d greater than max %d", minVal, maxVal))
		}
		return minVal, &maxVal, true, nil
	default:
		return 0, nil, true, newErr(ErrInvalidRepetition, start, "expected ',' or '}'")
	}
}

func (p *parser) consumeDigits() string {
	start := p.pos
	for !p.atEnd() && isDigit(p.current()) {
		p.advance()
	}
	return p.pattern[start:p.pos]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseAtom parses the highest-precedence grammar production: groups,
// character classes, '.', quoted literals, escapes, anchors, and plain
// literal characters.
func (p *parser) parseAtom() (Node, error) {
	if p.atEnd() {
		return nil, newErr(ErrUnexpectedEnd, p.pos, "")
	}

	switch c := p.current(); c {
	case '(':
		return p.parseGroup()
	case '[':
		return p.parseCharClass()
	case '.':
		p.advance()
		return Dot{}, nil
	case '"':
		return p.parseQuoted()
	case '\\':
		return p.parseEscape()
	case '^':
		if p.pos == 0 {
			p.advance()
			return StartAnchor{}, nil
		}
		p.advance()
		return Char{Byte: c}, nil
	case '$':
		if p.pos == len(p.pattern)-1 {
			p.advance()
			return EndAnchor{}, nil
		}
		p.advance()
		return Char{Byte: c}, nil
	default:
		p.advance()
		return Char{Byte: c}, nil
	}
}

func (p *parser) parseGroup() (Node, error) {
	openPos := p.pos
	p.advance() // skip '('

	if p.current() == '?' {
		if c, ok := p.peek(1); ok && c == ':' {
			p.pos += 2 // discard non-capturing marker
		}
	}

	inner, err := p.parseUnion()
	if err != nil {
		return nil, err
	}

	if p.current() != ')' {
		return nil, newErr(ErrUnmatchedParen, openPos, "")
	}
	p.advance()

	return inner, nil
}

func (p *parser) parseCharClass() (Node, error) {
	p.advance() // skip '['

	negate := false
	if p.current() == '^' {
		negate = true
		p.advance()
	}

	var set []byte
	for {
		if p.atEnd() {
			return nil, newErr(ErrUnterminatedClass, p.pos, "")
		}
		if p.current() == ']' {
			break
		}

		if p.current() == '[' {
			if c, ok := p.peek(1); ok && c == ':' {
				bytes, err := p.parsePosixClass()
				if err != nil {
					return nil, err
				}
				set = append(set, bytes...)
				continue
			}
		}

		if p.current() == '\\' {
			p.advance()
			if p.atEnd() {
				return nil, newErr(ErrTrailingBackslash, p.pos, "")
			}
			bytes, err := p.parseEscapeBytes()
			if err != nil {
				return nil, err
			}
			set = append(set, bytes...)
			continue
		}

		start := p.current()
		if nextC, ok := p.peek(1); ok && nextC == '-' {
			if endC, ok2 := p.peek(2); ok2 && endC != ']' {
				p.pos += 2 // skip start and '-'
				end := p.current()
				p.advance()
				if start > end {
					return nil, newErr(ErrInvalidRange, p.pos,
						fmt.Sprintf("%q-%q", start, end))
				}
				set = append(set, rangeBytes(start, end)...)
				continue
			}
		}

		set = append(set, start)
		p.advance()
	}

	p.advance() // skip ']'

	if negate {
		return NegatedCharClass{Set: set}, nil
	}
	return CharClass{Set: set}, nil
}

func (p *parser) parsePosixClass() ([]byte, error) {
	start := p.pos
	p.pos += 2 // skip "[:"
	nameStart := p.pos
	for !p.atEnd() && p.current() != ':' {
		p.advance()
	}
	name := p.pattern[nameStart:p.pos]
	if p.atEnd() {
		return nil, newErr(ErrUnterminatedClass, start, "")
	}
	p.advance() // skip ':'
	if p.current() != ']' {
		return nil, newErr(ErrUnknownPosixClass, start, name)
	}
	p.advance() // skip ']'

	bytes, ok := posixClassBytes(name)
	if !ok {
		return nil, newErr(ErrUnknownPosixClass, start, name)
	}
	return bytes, nil
}

// cQuoteEscapes is the exact escape set recognized inside a quoted
// literal, per spec.md §4.1: "n t r f b a v \" \\".
var cQuoteEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'f': '\f',
	'b': '\b', 'a': '\a', 'v': '\v', '"': '"', '\\': '\\',
}

func (p *parser) parseQuoted() (Node, error) {
	startPos := p.pos
	p.advance() // skip opening quote

	var bytes []byte
	for p.current() != '"' {
		if p.atEnd() {
			return nil, newErr(ErrUnterminatedQuote, startPos, "")
		}
		c := p.current()
		if c == '\\' {
			p.advance()
			if p.atEnd() {
				return nil, newErr(ErrUnterminatedQuote, startPos, "")
			}
			mapped, ok := cQuoteEscapes[p.current()]
			if !ok {
				return nil, newErr(ErrInvalidEscape, p.pos, fmt.Sprintf("%q", p.current()))
			}
			bytes = append(bytes, mapped)
			p.advance()
			continue
		}
		bytes = append(bytes, c)
		p.advance()
	}
	p.advance() // skip closing quote

	if len(bytes) == 0 {
		return Empty{}, nil
	}
	nodes := make([]Node, len(bytes))
	for i, b := range bytes {
		nodes[i] = Char{Byte: b}
	}
	return concatAll(nodes), nil
}

// parseEscape parses a top-level '\x' escape as a standalone atom.
func (p *parser) parseEscape() (Node, error) {
	startPos := p.pos
	p.advance() // skip '\\'
	if p.atEnd() {
		return nil, newErr(ErrTrailingBackslash, startPos, "")
	}

	switch c := p.current(); c {
	case 'd':
		p.advance()
		return CharClass{Set: digitBytes()}, nil
	case 'D':
		p.advance()
		return NegatedCharClass{Set: digitBytes()}, nil
	case 'w':
		p.advance()
		return CharClass{Set: wordBytes()}, nil
	case 'W':
		p.advance()
		return NegatedCharClass{Set: wordBytes()}, nil
	case 's':
		p.advance()
		return CharClass{Set: whitespaceBytes()}, nil
	case 'S':
		p.advance()
		return NegatedCharClass{Set: whitespaceBytes()}, nil
	case 'x':
		b, err := p.parseHexEscape()
		if err != nil {
			return nil, err
		}
		return Char{Byte: b}, nil
	default:
		if isOctalDigit(c) {
			return Char{Byte: p.parseOctalEscape()}, nil
		}
		if simple, ok := simpleEscapes[c]; ok {
			p.advance()
			return Char{Byte: simple}, nil
		}
		p.advance()
		return Char{Byte: c}, nil
	}
}

// parseEscapeBytes parses a '\x' escape inside a character class,
// returning the set of bytes it contributes (a shortcut like \d
// contributes many; a literal escape contributes one).
func (p *parser) parseEscapeBytes() ([]byte, error) {
	switch c := p.current(); c {
	case 'd':
		p.advance()
		return digitBytes(), nil
	case 'D':
		p.advance()
		return complementBytes(digitBytes()), nil
	case 'w':
		p.advance()
		return wordBytes(), nil
	case 'W':
		p.advance()
		return complementBytes(wordBytes()), nil
	case 's':
		p.advance()
		return whitespaceBytes(), nil
	case 'S':
		p.advance()
		return complementBytes(whitespaceBytes()), nil
	case 'x':
		b, err := p.parseHexEscape()
		if err != nil {
			return nil, err
		}
		return []byte{b}, nil
	default:
		if isOctalDigit(c) {
			return []byte{p.parseOctalEscape()}, nil
		}
		if simple, ok := simpleEscapes[c]; ok {
			p.advance()
			return []byte{simple}, nil
		}
		p.advance()
		return []byte{c}, nil
	}
}

var simpleEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'f': '\f',
	'b': '\b', 'a': '\a', 'v': '\v',
}

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }

// parseHexEscape parses exactly two hex digits following '\x'.
func (p *parser) parseHexEscape() (byte, error) {
	startPos := p.pos
	p.advance() // skip 'x'
	digits := make([]byte, 0, 2)
	for len(digits) < 2 && !p.atEnd() && isHexDigit(p.current()) {
		digits = append(digits, p.current())
		p.advance()
	}
	if len(digits) != 2 {
		return 0, newErr(ErrInvalidEscape, startPos, "expected exactly 2 hex digits")
	}
	v, _ := strconv.ParseUint(string(digits), 16, 8)
	return byte(v), nil
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// parseOctalEscape parses 1 to 3 octal digits.
func (p *parser) parseOctalEscape() byte {
	digits := make([]byte, 0, 3)
	for len(digits) < 3 && !p.atEnd() && isOctalDigit(p.current()) {
		digits = append(digits, p.current())
		p.advance()
	}
	v, _ := strconv.ParseUint(string(digits), 8, 8)
	return byte(v)
}
