package contentstream

import (
	"strconv"
	"strings"
)

// token is one lexical element of a content stream.
type token struct {
	kind tokenKind
	text string
	data []byte
}

type tokenKind int

const (
	tokOperator tokenKind = iota
	tokNumber
	tokName
	tokString
	tokDelim
)

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// tokenize splits a content stream into operands and operators. Literal
// strings may contain white space and balanced parentheses; hex strings
// are decoded. Array and dictionary delimiters are reported but carry no
// structure.
func tokenize(src []byte) []token {
	var out []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case isWhite(c):
			i++
		case c == '%':
			for i < len(src) && src[i] != '\n' && src[i] != '\r' {
				i++
			}
		case c == '/':
			j := i + 1
			for j < len(src) && !isWhite(src[j]) && !isDelim(src[j]) {
				j++
			}
			out = append(out, token{kind: tokName, text: string(src[i+1 : j])})
			i = j
		case c == '(':
			data, n := readLiteral(src[i:])
			out = append(out, token{kind: tokString, data: data})
			i += n
		case c == '<' && i+1 < len(src) && src[i+1] == '<',
			c == '>' && i+1 < len(src) && src[i+1] == '>':
			out = append(out, token{kind: tokDelim, text: string(src[i : i+2])})
			i += 2
		case c == '<':
			j := i + 1
			for j < len(src) && src[j] != '>' {
				j++
			}
			out = append(out, token{kind: tokString, data: decodeHex(src[i+1 : j])})
			i = j + 1
		case isDelim(c):
			out = append(out, token{kind: tokDelim, text: string(c)})
			i++
		default:
			j := i
			for j < len(src) && !isWhite(src[j]) && !isDelim(src[j]) {
				j++
			}
			word := string(src[i:j])
			if _, err := strconv.ParseFloat(word, 64); err == nil {
				out = append(out, token{kind: tokNumber, text: word})
			} else {
				out = append(out, token{kind: tokOperator, text: word})
			}
			i = j
		}
	}
	return out
}

// readLiteral decodes a literal string starting at src[0] == '(' and
// returns the bytes and the number of input bytes consumed.
func readLiteral(src []byte) ([]byte, int) {
	var out []byte
	depth := 0
	i := 0
	for i < len(src) {
		c := src[i]
		switch c {
		case '(':
			if depth > 0 {
				out = append(out, c)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return out, i + 1
			}
			out = append(out, c)
		case '\\':
			i++
			if i >= len(src) {
				return out, i
			}
			switch e := src[i]; e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r', '\n':
			default:
				if e >= '0' && e <= '7' {
					v := 0
					k := 0
					for k < 3 && i < len(src) && src[i] >= '0' && src[i] <= '7' {
						v = v*8 + int(src[i]-'0')
						i++
						k++
					}
					i--
					out = append(out, byte(v))
				} else {
					out = append(out, e)
				}
			}
		default:
			out = append(out, c)
		}
		i++
	}
	return out, i
}

func decodeHex(src []byte) []byte {
	digits := strings.Map(func(r rune) rune {
		if isWhite(byte(r)) {
			return -1
		}
		return r
	}, string(src))
	if len(digits)%2 == 1 {
		digits += "0"
	}
	out := make([]byte, 0, len(digits)/2)
	for i := 0; i+1 < len(digits); i += 2 {
		v, err := strconv.ParseUint(digits[i:i+2], 16, 8)
		if err != nil {
			break
		}
		out = append(out, byte(v))
	}
	return out
}
