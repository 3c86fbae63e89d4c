package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Directive syntax
	DirUnknownType      Code = 1001
	DirMissingArgs      Code = 1002
	DirUnexpectedArgs   Code = 1003
	DirUnterminatedArgs Code = 1004
	DirTrailingText     Code = 1005
	DirInvalidJSON      Code = 1006
	DirArgNotObject     Code = 1007

	// Region structure
	RegScopeNotClosed        Code = 2001
	RegEmitContainsDirective Code = 2002
	RegEmitNotClosed         Code = 2003

	// File I/O
	IOLoadFileError  Code = 3001
	IOWriteFileError Code = 3002

	// Rendering
	RndTemplateError   Code = 4001
	RndMissingTemplate Code = 4002
	RndBadTemplateName Code = 4003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		DirUnknownType:           "Invalid directive type",
		DirMissingArgs:           "Directive should have arguments",
		DirUnexpectedArgs:        "Directive should not have arguments",
		DirUnterminatedArgs:      "Unterminated argument list",
		DirTrailingText:          "Unexpected text after arguments",
		DirInvalidJSON:           "Invalid JSON argument",
		DirArgNotObject:          "Argument should be an object",
		RegScopeNotClosed:        "Scope not closed",
		RegEmitContainsDirective: "Emit region must not contain directives",
		RegEmitNotClosed:         "Emit region must end with end directive",
		IOLoadFileError:          "I/O error loading file",
		IOWriteFileError:         "I/O error writing file",
		RndTemplateError:         "Template execution failed",
		RndMissingTemplate:       "Template not found",
		RndBadTemplateName:       "Emit arguments do not name a template",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DIR%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("REG%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RND%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

// Kind returns the error kind the code belongs to.
func (c Code) Kind() Kind {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return KindInvalidDirective
	case ic >= 2000 && ic < 3000:
		return KindInvalidRegion
	}
	return KindTool
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
