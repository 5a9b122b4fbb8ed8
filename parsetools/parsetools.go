package parsetools

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnbalanced is returned when an opening delimiter has no matching close
var ErrUnbalanced = errors.New("unbalanced delimiters")

// IsIdentChar reports whether c can appear inside a C identifier
func IsIdentChar(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

// IsIdentStart reports whether c can start a C identifier
func IsIdentStart(c byte) bool {
	return IsIdentChar(c) && !('0' <= c && c <= '9')
}

// IsSpace reports whether c is horizontal or vertical whitespace
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// IsIdent reports whether the whole string is a single identifier
func IsIdent(s string) bool {
	if s == "" || !IsIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsIdentChar(s[i]) {
			return false
		}
	}
	return true
}

// StopAt builds a stop predicate that matches any of the given characters
func StopAt(chars string) func(byte) bool {
	return func(c byte) bool {
		return strings.IndexByte(chars, c) != -1
	}
}

// Extract scans forward from `start + skip`, collecting characters until
// `stop` matches. The stop character is not part of the result.
// It returns the collected text and the offset immediately after it, and
// reports false if the end of the source was reached first
func Extract(src string, start, skip int, stop func(byte) bool) (string, int, bool) {
	from := start + skip
	if from > len(src) {
		return "", len(src), false
	}
	for ci := from; ci < len(src); ci++ {
		if stop(src[ci]) {
			return src[from:ci], ci, true
		}
	}
	return src[from:], len(src), false
}

// ExtractBackward collects characters walking backwards from `end` until
// `stop` matches, and returns the text (in source order) with its start offset
func ExtractBackward(src string, end int, stop func(byte) bool) (string, int) {
	ci := end
	for ci > 0 && !stop(src[ci-1]) {
		ci--
	}
	return src[ci:end], ci
}

// skipLiteral returns the offset just past a string literal, character
// literal, or comment starting at `ci`, or `ci` itself if none starts there
func skipLiteral(src string, ci int) int {
	switch src[ci] {
	case '"', '\'':
		quote := src[ci]
		for i := ci + 1; i < len(src); i++ {
			switch src[i] {
			case '\\':
				i++
			case quote:
				return i + 1
			case '\n':
				// Unterminated on this line, leave the rest of the source alone
				return i
			}
		}
		return len(src)
	case '/':
		if ci+1 >= len(src) {
			return ci
		}
		switch src[ci+1] {
		case '/':
			if end := strings.IndexByte(src[ci:], '\n'); end != -1 {
				return ci + end
			}
			return len(src)
		case '*':
			if end := strings.Index(src[ci+2:], "*/"); end != -1 {
				return ci + 2 + end + 2
			}
			return len(src)
		}
	}
	return ci
}

// IndexOfMatchingChar finds the closing character that balances the opening
// character at `openingIndex`, counting nested pairs and ignoring delimiters
// that appear in literals or comments
func IndexOfMatchingChar(src string, openingIndex int, openingChar, closingChar byte) (int, error) {
	if openingIndex >= len(src) || src[openingIndex] != openingChar {
		return -1, fmt.Errorf("invalid starting character at offset %d, expected %q", openingIndex, openingChar)
	}

	depth := 0
	for ci := openingIndex; ci < len(src); {
		if next := skipLiteral(src, ci); next != ci {
			ci = next
			continue
		}
		switch src[ci] {
		case openingChar:
			depth++
		case closingChar:
			depth--
			if depth == 0 {
				return ci, nil
			}
		}
		ci++
	}
	return -1, fmt.Errorf("%w: no matching %q for %q at offset %d", ErrUnbalanced, closingChar, openingChar, openingIndex)
}

// Find returns the offset of every occurrence of target outside of literals
// and comments. If target starts or ends with an identifier character, the
// neighbouring source characters must not be identifier characters, so that
// `new` does not match inside `renew`
func Find(src, target string) []int {
	if target == "" {
		return nil
	}
	checkLeft := IsIdentChar(target[0])
	checkRight := IsIdentChar(target[len(target)-1])

	var indexes []int
	for ci := 0; ci < len(src); {
		if next := skipLiteral(src, ci); next != ci {
			ci = next
			continue
		}
		if strings.HasPrefix(src[ci:], target) &&
			!(checkLeft && ci > 0 && IsIdentChar(src[ci-1])) &&
			!(checkRight && ci+len(target) < len(src) && IsIdentChar(src[ci+len(target)])) {
			indexes = append(indexes, ci)
			ci += len(target)
			continue
		}
		ci++
	}
	return indexes
}

// SplitTopLevel splits the text on `sep`, ignoring separators nested inside
// parentheses, brackets, braces, or literals. Parts are trimmed, and an empty
// input gives no parts
func SplitTopLevel(text string, sep byte) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var parts []string
	depth, last := 0, 0
	for ci := 0; ci < len(text); {
		if next := skipLiteral(text, ci); next != ci {
			ci = next
			continue
		}
		switch c := text[ci]; {
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(text[last:ci]))
			last = ci + 1
		}
		ci++
	}
	return append(parts, strings.TrimSpace(text[last:]))
}

// IndexOfOpeningChar walks backwards from the closing character at
// `closingIndex` to the opening character that balances it. Literals are not
// recognised when walking backwards
func IndexOfOpeningChar(src string, closingIndex int, openingChar, closingChar byte) (int, error) {
	if closingIndex < 0 || closingIndex >= len(src) || src[closingIndex] != closingChar {
		return -1, fmt.Errorf("invalid closing character at offset %d, expected %q", closingIndex, closingChar)
	}

	depth := 0
	for ci := closingIndex; ci >= 0; ci-- {
		switch src[ci] {
		case closingChar:
			depth++
		case openingChar:
			depth--
			if depth == 0 {
				return ci, nil
			}
		}
	}
	return -1, fmt.Errorf("%w: no matching %q for %q at offset %d", ErrUnbalanced, openingChar, closingChar, closingIndex)
}
