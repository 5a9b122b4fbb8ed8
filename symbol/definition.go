package symbol

import "fmt"

// Method represents a single method declared for a class
type Method struct {
	// The method's name, as written after `Class::`
	Name string
	// The return type, taken literally from the declaration
	ReturnType string
	// The raw parameter list, without the receiver
	Params string
	// If the method has only been declared, and not yet defined
	Prototype bool
}

func (m Method) String() string {
	return fmt.Sprintf("Name: %s ReturnType: %s Params: (%s)", m.Name, m.ReturnType, m.Params)
}
