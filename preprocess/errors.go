package preprocess

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/NickyBoy89/prec/symbol"
)

// Kinds of errors reported by the preprocessor, test for them with errors.Is
var (
	// A block or argument list has no closing delimiter
	ErrUnterminatedBlock = errors.New("unterminated block")
	// A `new` expression or parent reference names a class that was never declared
	ErrUnknownClass = errors.New("unknown class")
	// The same class name is declared twice
	ErrDuplicateClass = symbol.ErrDuplicateClass
	// A construct keyword is followed by something that is not the expected shape
	ErrMalformedConstruct = errors.New("malformed construct")
	// A class or method is named after a C keyword
	ErrReservedName = errors.New("reserved name")
	// Two rewrites in the same pass partially overlap
	ErrOverlappingEdits = errors.New("overlapping edits")
)

// Error describes a problem with a single construct in the source
type Error struct {
	Kind error
	// The kind of construct, such as "class" or "new"
	Construct string
	Name      string
	// Position of the construct in the source that was scanned
	Pos    token.Position
	Detail string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Construct != "" || e.Name != "" {
		msg = strings.TrimSpace(fmt.Sprintf("%s: %s %s", msg, e.Construct, e.Name))
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}
