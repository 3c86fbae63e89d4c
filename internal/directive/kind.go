package directive

import "fmt"

// Kind identifies one of the five directive forms.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBegin
	KindEnd
	KindAssign
	KindMerge
	KindEmit
)

var kindNames = map[string]Kind{
	"begin":  KindBegin,
	"end":    KindEnd,
	"assign": KindAssign,
	"merge":  KindMerge,
	"emit":   KindEmit,
}

// LookupKind maps a directive name to its Kind.
func LookupKind(name string) (Kind, bool) {
	k, ok := kindNames[name]
	return k, ok
}

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindAssign:
		return "assign"
	case KindMerge:
		return "merge"
	case KindEmit:
		return "emit"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// TakesArgs reports whether the directive requires a parenthesised argument.
func (k Kind) TakesArgs() bool {
	return k == KindAssign || k == KindMerge || k == KindEmit
}
