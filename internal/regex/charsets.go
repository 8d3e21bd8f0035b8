package regex

// Byte-set helpers for the escape shortcuts (\d \w \s and their
// negations) and the POSIX named classes ([:alpha:] etc). All sets are
// built directly from the 7-bit ASCII alphabet per spec.md's Non-goals
// (Unicode beyond ASCII is out of scope).

func rangeBytes(lo, hi byte) []byte {
	out := make([]byte, 0, int(hi)-int(lo)+1)
	for c := lo; c <= hi; c++ {
		out = append(out, c)
	}
	return out
}

func digitBytes() []byte { return rangeBytes('0', '9') }

func lowerBytes() []byte { return rangeBytes('a', 'z') }

func upperBytes() []byte { return rangeBytes('A', 'Z') }

func alphaBytes() []byte {
	return append(lowerBytes(), upperBytes()...)
}

func wordBytes() []byte {
	out := alphaBytes()
	out = append(out, digitBytes()...)
	out = append(out, '_')
	return out
}

// whitespaceBytes matches the \s shortcut exactly as the original
// Pradene/lex implementation defines it: space, tab, LF, CR.
func whitespaceBytes() []byte {
	return []byte{' ', '\t', '\n', '\r'}
}

func complementBytes(set []byte) []byte {
	in := make([]bool, 128)
	for _, c := range set {
		if c < 128 {
			in[c] = true
		}
	}
	out := make([]byte, 0, 128)
	for c := 0; c < 128; c++ {
		if !in[c] {
			out = append(out, byte(c))
		}
	}
	return out
}

// posixClassBytes expands a named POSIX class, per spec.md §4.1's list
// of recognized names.
func posixClassBytes(name string) ([]byte, bool) {
	switch name {
	case "alpha":
		return alphaBytes(), true
	case "digit":
		return digitBytes(), true
	case "alnum":
		return append(alphaBytes(), digitBytes()...), true
	case "space":
		return []byte{' ', '\t', '\n', '\v', '\f', '\r'}, true
	case "punct":
		return punctBytes(), true
	case "graph":
		return rangeBytes(0x21, 0x7e), true
	case "print":
		return rangeBytes(0x20, 0x7e), true
	case "xdigit":
		out := digitBytes()
		out = append(out, rangeBytes('a', 'f')...)
		out = append(out, rangeBytes('A', 'F')...)
		return out, true
	case "blank":
		return []byte{' ', '\t'}, true
	case "cntrl":
		out := rangeBytes(0x00, 0x1f)
		out = append(out, 0x7f)
		return out, true
	case "lower":
		return lowerBytes(), true
	case "upper":
		return upperBytes(), true
	default:
		return nil, false
	}
}

func punctBytes() []byte {
	const punct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	return []byte(punct)
}
