package symbol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclareAndLookup(t *testing.T) {
	table := NewTable()

	point, err := table.Declare("Point", "", 0)
	assert.Nil(t, err)
	assert.Equal(t, "Point", point.Name)

	_, err = table.Declare("Point3", "Point", 40)
	assert.Nil(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Same(t, point, table.Lookup("Point"))
	assert.Nil(t, table.Lookup("Missing"))
	assert.Equal(t, []*ClassEntry{table.Lookup("Point3")}, table.Children("Point"))
}

func TestDuplicateClass(t *testing.T) {
	table := NewTable()
	first, err := table.Declare("Point", "", 0)
	assert.Nil(t, err)

	again, err := table.Declare("Point", "Base", 12)
	assert.True(t, errors.Is(err, ErrDuplicateClass))
	assert.Same(t, first, again)
	assert.Equal(t, "", again.Parent)
	assert.Equal(t, 1, table.Len())
}

func TestMethodOrder(t *testing.T) {
	class := &ClassEntry{Name: "Shape"}

	assert.True(t, class.AddMethod(Method{Name: "draw", ReturnType: "void"}))
	assert.True(t, class.AddMethod(Method{Name: "area", ReturnType: "int"}))
	assert.False(t, class.AddMethod(Method{Name: "draw", ReturnType: "int"}))
	assert.True(t, class.AddMethod(Method{Name: "move", ReturnType: "void", Params: "int dx"}))

	assert.Equal(t, []string{"draw", "area", "move"}, class.MethodNames())
	assert.Equal(t, "void", class.FindMethod("draw").ReturnType)
	assert.Nil(t, class.FindMethod("resize"))
}

func TestPrototypeCompletedByDefinition(t *testing.T) {
	class := &ClassEntry{Name: "Shape"}
	class.AddMethod(Method{Name: "draw", ReturnType: "void", Prototype: true})
	class.AddMethod(Method{Name: "draw", ReturnType: "void"})

	assert.Len(t, class.Methods(), 1)
	assert.False(t, class.FindMethod("draw").Prototype)
}

func TestMethodsIsACopy(t *testing.T) {
	class := &ClassEntry{Name: "Shape"}
	class.AddMethod(Method{Name: "draw"})

	methods := class.Methods()
	methods[0].Name = "changed"
	assert.Equal(t, []string{"draw"}, class.MethodNames())
}

func TestTableString(t *testing.T) {
	table := NewTable()
	shape, _ := table.Declare("Shape", "", 0)
	shape.AddMethod(Method{Name: "area", ReturnType: "int"})
	_, _ = table.Declare("Square", "Shape", 10)

	expected := "Class: Shape Methods: [Name: area ReturnType: int Params: ()]\n" +
		"Class: Square Parent: Shape Methods: []\n"
	assert.Equal(t, expected, table.String())
}
