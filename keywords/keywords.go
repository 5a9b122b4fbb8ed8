package keywords

import "golang.org/x/exp/slices"

// Construct keywords and operators recognised by the preprocessor
const (
	Class  = "class"
	New    = "new"
	Super  = "super"
	Scope  = "::"
	Arrow  = "->"
	Extend = '+'
)

// Reserved C keywords (C11), these cannot be used as class or method names
var Reserved = []string{
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"inline", "int", "long", "register", "restrict", "return", "short",
	"signed", "sizeof", "static", "struct", "switch", "typedef", "union",
	"unsigned", "void", "volatile", "while",
	"_Alignas", "_Alignof", "_Atomic", "_Bool", "_Complex", "_Generic",
	"_Imaginary", "_Noreturn", "_Static_assert", "_Thread_local",
}

// IsReserved tests if a given identifier conflicts with a C keyword or one of
// the preprocessor's own construct keywords
func IsReserved(name string) bool {
	return slices.Contains(Reserved, name) || name == Class || name == New || name == Super
}
