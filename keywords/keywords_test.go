package keywords

import "testing"

func TestIsReserved(t *testing.T) {
	for _, name := range []string{"int", "struct", "_Bool", "class", "new", "super"} {
		if !IsReserved(name) {
			t.Errorf("Expected %q to be reserved", name)
		}
	}
	for _, name := range []string{"Point", "move", "self", "Int"} {
		if IsReserved(name) {
			t.Errorf("Expected %q not to be reserved", name)
		}
	}
}
