package dot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NickyBoy89/prec/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromClasses(t *testing.T) {
	table := symbol.NewTable()
	base, err := table.Declare("Base", "", 0)
	require.Nil(t, err)
	base.AddMethod(symbol.Method{Name: "id", ReturnType: "int"})

	derived, err := table.Declare("Derived", "Base", 10)
	require.Nil(t, err)
	derived.AddMethod(symbol.Method{Name: "grow", ReturnType: "void"})
	derived.AddMethod(symbol.Method{Name: "draw", ReturnType: "void"})

	var out strings.Builder
	_, err = FromClasses(table).WriteTo(&out)
	require.Nil(t, err)

	expected := `digraph {
subgraph cluster_Base {
  label="Base"
  "Base"
  "Base_id"
}
subgraph cluster_Derived {
  label="Derived"
  "Derived"
  "Derived_grow"
  "Derived_draw"
}
"Derived" -> {"Base"}
}
`
	assert.Equal(t, expected, out.String())
}

func TestNodesAndEdges(t *testing.T) {
	d := New()
	d.AddNode("a")
	d.AddEdge("a", "b")
	d.AddEdge("c", "a")
	// Already there
	d.AddEdge("a", "b")

	assert.True(t, d.HasEdge("a", "b"))
	assert.True(t, d.HasEdge("c", "a"))
	assert.Equal(t, []string{"b"}, d.nodes[0].edges)
	assert.False(t, d.HasEdge("b", "a"))

	sub := d.Subgraph("group")
	assert.Same(t, sub, d.Subgraph("group"))
	assert.Len(t, d.subgraphs, 1)
}

func TestFromClassesUnknownParent(t *testing.T) {
	table := symbol.NewTable()
	_, err := table.Declare("Orphan", "Missing", 0)
	require.Nil(t, err)
	_, err = table.Declare("Child", "Orphan", 5)
	require.Nil(t, err)

	var out strings.Builder
	_, err = FromClasses(table).WriteTo(&out)
	require.Nil(t, err)

	assert.Contains(t, out.String(), "\"Orphan\" -> {\"Missing\"}\n")
	assert.Contains(t, out.String(), "\"Child\" -> {\"Orphan\"}\n")
	assert.Equal(t, 1, strings.Count(out.String(), "\"Child\" ->"))
}

func TestWriteFile(t *testing.T) {
	table := symbol.NewTable()
	_, err := table.Declare("Point", "", 0)
	require.Nil(t, err)

	name := filepath.Join(t.TempDir(), "classes.dot")
	require.Nil(t, FromClasses(table).WriteFile(name))

	contents, err := os.ReadFile(name)
	require.Nil(t, err)
	assert.Contains(t, string(contents), "subgraph cluster_Point {")
}

func TestCommaSeparatedString(t *testing.T) {
	assert.Equal(t, `"a", "b", "c"`, commaSeparatedString([]string{"a", "b", "c"}))
	assert.Equal(t, "", commaSeparatedString(nil))
}
