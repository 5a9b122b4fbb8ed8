package symbol

import (
	"errors"
	"fmt"
)

// ErrDuplicateClass is returned when a class name is declared more than once
var ErrDuplicateClass = errors.New("duplicate class declaration")

// Table maps class names to their entries, and remembers the order that the
// classes were declared in
type Table struct {
	classes []*ClassEntry
	index   map[string]*ClassEntry
}

func NewTable() *Table {
	return &Table{index: make(map[string]*ClassEntry)}
}

// Declare adds a new class to the table. Re-declaring a class that already
// exists is an error, and the existing entry is left untouched
func (t *Table) Declare(name, parent string, offset int) (*ClassEntry, error) {
	if existing, in := t.index[name]; in {
		return existing, fmt.Errorf("%w: %s (first declared at offset %d)", ErrDuplicateClass, name, existing.Offset)
	}
	entry := &ClassEntry{Name: name, Parent: parent, Offset: offset}
	t.classes = append(t.classes, entry)
	t.index[name] = entry
	return entry, nil
}

// Lookup returns the class with the given name, or nil
func (t *Table) Lookup(name string) *ClassEntry {
	return t.index[name]
}

// Classes returns every class in declaration order
func (t *Table) Classes() []*ClassEntry {
	return t.classes
}

func (t *Table) Len() int {
	return len(t.classes)
}

// Children returns the classes that directly extend the given class
func (t *Table) Children(name string) []*ClassEntry {
	var children []*ClassEntry
	for _, class := range t.classes {
		if class.Parent == name {
			children = append(children, class)
		}
	}
	return children
}

func (t *Table) String() string {
	result := ""
	for _, class := range t.classes {
		result += class.String() + "\n"
	}
	return result
}
