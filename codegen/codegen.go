// Package codegen renders the C code that replaces each class construct.
//
// A backend is a set of three templates, one per construct kind, and a
// preamble that the generated code depends on:
//
//	preamble.h   prepended once to every output
//	class.tmpl   record declaration (Class)
//	method.tmpl  free function with an explicit receiver (Method)
//	new.tmpl     construction expression (Construct)
//
// The built-in backends are embedded, and any directory holding the same four
// files can be loaded as a custom backend
package codegen

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/NickyBoy89/prec/parsetools"
	"github.com/NickyBoy89/prec/symbol"
)

const (
	preambleFile   = "preamble.h"
	classTemplate  = "class.tmpl"
	methodTemplate = "method.tmpl"
	newTemplate    = "new.tmpl"
)

// DefaultBackend is used when no backend has been configured
const DefaultBackend = "c"

// ErrUnknownBackend is returned when looking up a backend that does not exist
var ErrUnknownBackend = errors.New("unknown backend")

//go:embed templates
var builtin embed.FS

// Class is the data passed to the class template
type Class struct {
	Name string
	// The parent class, empty if there is none
	Parent string
	// The body of the class, including the synthetic `super` field
	Fields string
	// Every method registered for the class, in declaration order
	Methods  []symbol.Method
	Receiver string
}

// Method is the data passed to the method template
type Method struct {
	Class      string
	Name       string
	ReturnType string
	// Declared parameters, split and trimmed, without the receiver
	Params   []string
	Body     string
	Receiver string
	// Prototypes have no body
	Prototype bool
}

// Construct is the data passed to the construction template
type Construct struct {
	Class string
	// The constructor arguments, with any method references already added
	Args string
}

// Backend produces the replacement text for each construct
type Backend interface {
	Name() string
	Preamble() string
	EmitClass(class Class) (string, error)
	EmitMethod(method Method) (string, error)
	EmitConstruct(construct Construct) (string, error)
}

// FunctionName is the name of the free function generated for a method
func FunctionName(class, method string) string {
	return class + "_" + method
}

// SplitParams splits a raw parameter list into its declarations. An empty
// list and C's `(void)` both give no parameters
func SplitParams(params string) []string {
	if strings.TrimSpace(params) == "void" {
		return nil
	}
	return parsetools.SplitTopLevel(params, ',')
}

var funcs = template.FuncMap{
	"fn":     FunctionName,
	"params": SplitParams,
	"join":   strings.Join,
	"braced": func(body string) string {
		return "{" + body + "}"
	},
}

// Builtin lists the names of the embedded backends
func Builtin() []string {
	entries, err := fs.ReadDir(builtin, "templates")
	if err != nil {
		panic(err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names
}

// Lookup returns the embedded backend with the given name
func Lookup(name string) (Backend, error) {
	dir := path.Join("templates", name)
	if info, err := fs.Stat(builtin, dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownBackend, name, strings.Join(Builtin(), ", "))
	}
	sub, err := fs.Sub(builtin, dir)
	if err != nil {
		return nil, err
	}
	return load(name, sub)
}

// LoadDir loads a custom backend from a directory on disk
func LoadDir(dir string) (Backend, error) {
	return load(filepath.Base(dir), os.DirFS(dir))
}

type templateBackend struct {
	name      string
	preamble  string
	templates *template.Template
}

func load(name string, fsys fs.FS) (*templateBackend, error) {
	preamble, err := fs.ReadFile(fsys, preambleFile)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}

	templates, err := template.New(name).Funcs(funcs).ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	for _, required := range []string{classTemplate, methodTemplate, newTemplate} {
		if templates.Lookup(required) == nil {
			return nil, fmt.Errorf("backend %s: missing template %s", name, required)
		}
	}

	return &templateBackend{name: name, preamble: string(preamble), templates: templates}, nil
}

func (b *templateBackend) Name() string {
	return b.name
}

func (b *templateBackend) Preamble() string {
	return b.preamble
}

func (b *templateBackend) EmitClass(class Class) (string, error) {
	return b.execute(classTemplate, class)
}

func (b *templateBackend) EmitMethod(method Method) (string, error) {
	return b.execute(methodTemplate, method)
}

func (b *templateBackend) EmitConstruct(construct Construct) (string, error) {
	return b.execute(newTemplate, construct)
}

// execute renders a template, dropping the final newline that template files
// end with, since the result is spliced into the middle of a line
func (b *templateBackend) execute(name string, data interface{}) (string, error) {
	var out strings.Builder
	if err := b.templates.ExecuteTemplate(&out, name, data); err != nil {
		return "", fmt.Errorf("backend %s: %w", b.name, err)
	}
	return strings.TrimSuffix(out.String(), "\n"), nil
}
