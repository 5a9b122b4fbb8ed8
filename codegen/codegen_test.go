package codegen

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/NickyBoy89/prec/symbol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLookup(t *testing.T, name string) Backend {
	t.Helper()
	backend, err := Lookup(name)
	require.Nil(t, err)
	return backend
}

func TestBuiltinBackends(t *testing.T) {
	assert.ElementsMatch(t, []string{"c", "macro"}, Builtin())

	_, err := Lookup("fortran")
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}

func TestCClass(t *testing.T) {
	backend := mustLookup(t, "c")

	out, err := backend.EmitClass(Class{
		Name:     "Point",
		Fields:   " int x; int y; ",
		Receiver: "self",
		Methods: []symbol.Method{
			{Name: "move", ReturnType: "void", Params: "int dx, int dy"},
			{Name: "norm", ReturnType: "int", Params: "void"},
		},
	})
	assert.Nil(t, err)
	assert.Equal(t, "typedef struct Point Point;\n"+
		"struct Point { int x; int y; \n"+
		"  void (*move)(Point *self, int dx, int dy);\n"+
		"  int (*norm)(Point *self);\n"+
		"};", out)
}

func TestCMethod(t *testing.T) {
	backend := mustLookup(t, "c")

	out, err := backend.EmitMethod(Method{
		Class:      "Point",
		Name:       "move",
		ReturnType: "void",
		Params:     []string{"int dx"},
		Body:       " x = x + dx; ",
		Receiver:   "self",
	})
	assert.Nil(t, err)
	assert.Equal(t, "void Point_move(Point *self, int dx) { x = x + dx; }", out)

	out, err = backend.EmitMethod(Method{
		Class:      "Point",
		Name:       "reset",
		ReturnType: "void",
		Receiver:   "this",
		Prototype:  true,
	})
	assert.Nil(t, err)
	assert.Equal(t, "void Point_reset(Point *this);", out)
}

func TestCConstruct(t *testing.T) {
	backend := mustLookup(t, "c")

	out, err := backend.EmitConstruct(Construct{Class: "Point", Args: "1, 2, Point_move"})
	assert.Nil(t, err)
	assert.Equal(t, "NEW(Point, 1, 2, Point_move)", out)

	out, err = backend.EmitConstruct(Construct{Class: "Empty"})
	assert.Nil(t, err)
	assert.Equal(t, "NEW(Empty)", out)
}

func TestMacroBackend(t *testing.T) {
	backend := mustLookup(t, "macro")
	assert.True(t, strings.HasPrefix(backend.Preamble(), "#ifndef CLASS_H"))

	out, err := backend.EmitMethod(Method{
		Class:      "Point",
		Name:       "move",
		ReturnType: "void",
		Params:     []string{"int dx", "int dy"},
		Body:       " _.dx; ",
	})
	assert.Nil(t, err)
	assert.Equal(t, "IMPL(Point, void, move, { int dx; int dy; }, { _.dx; })", out)

	out, err = backend.EmitClass(Class{Name: "Point", Fields: " int x; "})
	assert.Nil(t, err)
	assert.Equal(t, "CLASS(Point, { int x; \n});", out)
}

func TestSplitParams(t *testing.T) {
	assert.Nil(t, SplitParams(""))
	assert.Nil(t, SplitParams(" void "))
	assert.Equal(t, []string{"int a", "char *b"}, SplitParams("int a,char *b"))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"preamble.h":  "/* custom */\n",
		"class.tmpl":  "struct {{.Name}} {{\"{\"}}{{.Fields}}};\n",
		"method.tmpl": "{{.ReturnType}} {{fn .Class .Name}}({{join .Params \", \"}}) {{braced .Body}}\n",
		"new.tmpl":    "make_{{.Class}}({{.Args}})\n",
	}
	for name, content := range files {
		require.Nil(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	backend, err := LoadDir(dir)
	require.Nil(t, err)
	assert.Equal(t, filepath.Base(dir), backend.Name())
	assert.Equal(t, "/* custom */\n", backend.Preamble())

	out, err := backend.EmitConstruct(Construct{Class: "Point", Args: "1"})
	assert.Nil(t, err)
	assert.Equal(t, "make_Point(1)", out)

	out, err = backend.EmitMethod(Method{Class: "A", Name: "f", ReturnType: "int", Params: []string{"int a", "int b"}, Body: "return a;"})
	assert.Nil(t, err)
	assert.Equal(t, "int A_f(int a, int b) {return a;}", out)
}

func TestLoadDirMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "preamble.h"), nil, 0o644))
	require.Nil(t, os.WriteFile(filepath.Join(dir, "class.tmpl"), []byte("x"), 0o644))

	_, err := LoadDir(dir)
	assert.NotNil(t, err)
}
