package symbol

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// ClassEntry represents a single declared class, and the methods that have
// been found for it, in the order they were declared
type ClassEntry struct {
	Name string
	// The parent class, empty if the class does not extend another
	Parent string
	// Offset of the class declaration in the scanned source
	Offset int

	methods []Method
}

// Methods returns the class's methods in declaration order
func (ce *ClassEntry) Methods() []Method {
	return slices.Clone(ce.methods)
}

// MethodNames returns the names of the class's methods in declaration order
func (ce *ClassEntry) MethodNames() []string {
	names := make([]string, len(ce.methods))
	for ind, method := range ce.methods {
		names[ind] = method.Name
	}
	return names
}

// FindMethod searches through the class's methods for one with the given name
func (ce *ClassEntry) FindMethod(name string) *Method {
	ind := slices.IndexFunc(ce.methods, func(m Method) bool {
		return m.Name == name
	})
	if ind == -1 {
		return nil
	}
	return &ce.methods[ind]
}

// AddMethod registers a method, keeping the position of the first declaration.
// A definition that follows a prototype completes it.
// It returns true if the method was not known before
func (ce *ClassEntry) AddMethod(method Method) bool {
	if existing := ce.FindMethod(method.Name); existing != nil {
		if existing.Prototype && !method.Prototype {
			existing.Prototype = false
		}
		return false
	}
	ce.methods = append(ce.methods, method)
	return true
}

func (ce ClassEntry) String() string {
	if ce.Parent != "" {
		return fmt.Sprintf("Class: %s Parent: %s Methods: %v", ce.Name, ce.Parent, ce.methods)
	}
	return fmt.Sprintf("Class: %s Methods: %v", ce.Name, ce.methods)
}
