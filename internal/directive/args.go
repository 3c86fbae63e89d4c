package directive

import "errors"

var (
	errUnterminated = errors.New("unterminated argument list")
	errMismatched   = errors.New("mismatched bracket")
)

var closerOf = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// scanArgs finds the parenthesis closing s[0] == '('. Brackets nest, and
// anything inside a JSON string literal is skipped, so a ')' in a string or in
// trailing comment text after the close cannot end the list early.
func scanArgs(s string) (int, error) {
	stack := make([]byte, 0, 8)
	inStr := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inStr {
			switch ch {
			case '\\':
				i++
			case '"':
				inStr = false
			}
			continue
		}
		switch ch {
		case '"':
			inStr = true
		case '(', '[', '{':
			stack = append(stack, closerOf[ch])
		case ')', ']', '}':
			if len(stack) == 0 || stack[len(stack)-1] != ch {
				return i, errMismatched
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i, nil
			}
		}
	}
	return -1, errUnterminated
}
