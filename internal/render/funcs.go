package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

func funcs() template.FuncMap {
	return template.FuncMap{
		"json":   toJSON,
		"lower":  strings.ToLower,
		"upper":  strings.ToUpper,
		"title":  title,
		"join":   join,
		"indent": Indent,
	}
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// join accepts []any (decoded JSON arrays) as well as []string.
func join(sep string, v any) (string, error) {
	switch v := v.(type) {
	case []string:
		return strings.Join(v, sep), nil
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = fmt.Sprint(e)
		}
		return strings.Join(parts, sep), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("join: cannot join %T", v)
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
