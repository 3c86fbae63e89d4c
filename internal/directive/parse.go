package directive

import (
	"encoding/json"
	"fmt"
	"strings"

	"incode/internal/diag"
)

// SyntaxError is a failure to parse one directive body. It has no position;
// Extract attaches one when building the *diag.Error.
type SyntaxError struct {
	Code diag.Code
	Msg  string
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

func syntaxErrorf(code diag.Code, format string, args ...any) error {
	return &SyntaxError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Parse converts the text following "<prefix>:" into a typed payload.
//
//	begin | end | assign(<object>) | merge(<object>) | emit(<value>, ...)
func Parse(body string) (Payload, error) {
	body = strings.TrimSpace(body)

	open := strings.IndexByte(body, '(')
	if open < 0 {
		kind, ok := LookupKind(body)
		if !ok {
			return Payload{}, syntaxErrorf(diag.DirUnknownType, "invalid directive type %q", body)
		}
		if kind.TakesArgs() {
			return Payload{}, syntaxErrorf(diag.DirMissingArgs, "%s directive should have arguments", kind)
		}
		return Payload{Kind: kind}, nil
	}

	name := strings.TrimSpace(body[:open])
	kind, ok := LookupKind(name)
	if !ok {
		return Payload{}, syntaxErrorf(diag.DirUnknownType, "invalid directive type %q", name)
	}
	if !kind.TakesArgs() {
		return Payload{}, syntaxErrorf(diag.DirUnexpectedArgs, "%s directive should not have arguments", kind)
	}

	closeAt, err := scanArgs(body[open:])
	switch err {
	case nil:
	case errUnterminated:
		return Payload{}, syntaxErrorf(diag.DirUnterminatedArgs, "unterminated argument list %q", body[open:])
	default:
		return Payload{}, syntaxErrorf(diag.DirInvalidJSON, "invalid JSON argument %q: %v", body[open+1:], err)
	}
	closeAt += open
	arg := body[open+1 : closeAt]
	if rest := strings.TrimSpace(body[closeAt+1:]); rest != "" && !strings.HasPrefix(rest, "//") {
		return Payload{}, syntaxErrorf(diag.DirTrailingText, "unexpected text after arguments: %q", rest)
	}

	if kind == KindEmit {
		args, err := parseEmitArgs(arg)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Kind: kind, Args: args}, nil
	}
	obj, err := parseObject(kind, arg)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Kind: kind, Object: obj}, nil
}

func parseObject(kind Kind, arg string) (map[string]any, error) {
	var v any
	if err := json.Unmarshal([]byte(arg), &v); err != nil {
		return nil, syntaxErrorf(diag.DirInvalidJSON, "invalid JSON argument %q: %v", arg, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, syntaxErrorf(diag.DirArgNotObject, "%s argument should be an object, got %s", kind, jsonType(v))
	}
	return obj, nil
}

func parseEmitArgs(arg string) ([]any, error) {
	var args []any
	if err := json.Unmarshal([]byte("["+arg+"]"), &args); err != nil {
		return nil, syntaxErrorf(diag.DirInvalidJSON, "invalid JSON argument %q: %v", arg, err)
	}
	if args == nil {
		args = []any{}
	}
	return args, nil
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
