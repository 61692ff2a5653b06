package normalize

import (
	"github.com/m-mizutani/goerr/v2"
)

// Shape is the top level JSON shape expected in model output
type Shape int

const (
	ShapeObject Shape = iota
	ShapeArray
)

func (s Shape) open() byte {
	if s == ShapeArray {
		return '['
	}
	return '{'
}

func (s Shape) String() string {
	if s == ShapeArray {
		return "array"
	}
	return "object"
}

func closerOf(open byte) byte {
	if open == '[' {
		return ']'
	}
	return '}'
}

// Extract returns the first complete balanced span of the given shape in
// text: the leftmost opening bracket through its matching closing bracket.
// An opening bracket that never closes, or closes with the wrong bracket
// type, is skipped. Brackets inside JSON string literals of an open span are
// ignored; quotes outside any span are plain prose.
//
// The text is scanned once. Every completed span of the shape is a
// candidate and the leftmost one wins once no enclosing bracket is open.
func Extract(text string, shape Shape) (string, error) {
	open := shape.open()

	var (
		stack    []int
		inString bool
		escaped  bool
		best     = -1
		bestEnd  int
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = len(stack) > 0
		case '{', '[':
			stack = append(stack, i)
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			if closerOf(text[top]) != c {
				// every open bracket fails at this closer
				stack = stack[:0]
				if best >= 0 {
					return text[best : bestEnd+1], nil
				}
				continue
			}

			stack = stack[:len(stack)-1]
			if text[top] == open && (best < 0 || top < best) {
				best, bestEnd = top, i
			}
			if len(stack) == 0 && best >= 0 {
				return text[best : bestEnd+1], nil
			}
		}
	}

	if best >= 0 {
		return text[best : bestEnd+1], nil
	}
	return "", &Error{
		Kind: KindNoPayload,
		Err:  goerr.New("no balanced span found", goerr.V("shape", shape.String())),
	}
}
