// Package preprocess rewrites the class extensions of PreC into plain C.
//
// The source is rewritten by two passes. The class pass replaces every
// `class` declaration with a record, and while doing so rewrites the methods
// declared for that class and every call site of those methods. The
// constructor pass then replaces `new` expressions, using the methods that the
// class pass registered.
//
// Each pass scans a snapshot of the source and queues its rewrites in an
// EditLog against the snapshot's offsets, then applies them all at once
package preprocess

import (
	"go/token"

	"github.com/NickyBoy89/prec/codegen"
	"github.com/NickyBoy89/prec/symbol"
	log "github.com/sirupsen/logrus"
)

// DefaultReceiver is the name of the explicit receiver parameter
const DefaultReceiver = "self"

// Preprocessor holds the source being transformed, and the classes that have
// been found in it. A Preprocessor is not safe for concurrent use, but
// separate Preprocessors share nothing
type Preprocessor struct {
	// The current source, replaced at the end of every pass
	Src string

	classes  *symbol.Table
	backend  codegen.Backend
	receiver string
	filename string
	strict   bool
	log      *log.Entry

	// Methods whose call sites have already been queued in the current pass
	calls    map[string]bool
	warnings []*Error
}

type Option func(p *Preprocessor)

// WithBackend selects the templates used to emit code
func WithBackend(backend codegen.Backend) Option {
	return func(p *Preprocessor) {
		p.backend = backend
	}
}

// WithReceiver renames the receiver parameter of generated methods
func WithReceiver(name string) Option {
	return func(p *Preprocessor) {
		if name != "" {
			p.receiver = name
		}
	}
}

// WithFilename sets the file name used in error positions
func WithFilename(name string) Option {
	return func(p *Preprocessor) {
		p.filename = name
	}
}

// WithStrict turns warnings into errors
func WithStrict(strict bool) Option {
	return func(p *Preprocessor) {
		p.strict = strict
	}
}

func WithLogger(entry *log.Entry) Option {
	return func(p *Preprocessor) {
		p.log = entry
	}
}

func New(src string, opts ...Option) *Preprocessor {
	p := &Preprocessor{
		Src:      src,
		classes:  symbol.NewTable(),
		receiver: DefaultReceiver,
		log:      log.NewEntry(log.StandardLogger()),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.backend == nil {
		backend, err := codegen.Lookup(codegen.DefaultBackend)
		if err != nil {
			panic(err)
		}
		p.backend = backend
	}
	if p.filename != "" {
		p.log = p.log.WithField("file", p.filename)
	}
	return p
}

// Transform runs both passes over the source and returns the generated C
func Transform(src string, opts ...Option) (string, error) {
	p := New(src, opts...)
	if err := p.Parse(); err != nil {
		return "", err
	}
	return p.Src, nil
}

// Parse runs the class pass, and then the constructor pass once every class
// and method is known
func (p *Preprocessor) Parse() error {
	if err := p.ParseClasses(); err != nil {
		return err
	}
	return p.ParseConstructors()
}

// Classes returns the classes found so far
func (p *Preprocessor) Classes() *symbol.Table {
	return p.classes
}

// Warnings returns the problems that did not stop the transform
func (p *Preprocessor) Warnings() []*Error {
	return p.warnings
}

// pass is a single forward scan over a snapshot of the source
type pass struct {
	src   string
	edits *EditLog
	file  *token.File
}

func (p *Preprocessor) newPass() *pass {
	file := token.NewFileSet().AddFile(p.filename, -1, len(p.Src))
	file.SetLinesForContent([]byte(p.Src))

	p.calls = make(map[string]bool)
	return &pass{src: p.Src, edits: &EditLog{}, file: file}
}

func (ps *pass) position(offset int) token.Position {
	if offset < 0 || offset > ps.file.Size() {
		return token.Position{}
	}
	return ps.file.Position(ps.file.Pos(offset))
}

// errorAt builds an error for a construct at an offset of the snapshot
func (ps *pass) errorAt(kind error, construct, name string, offset int, detail string) *Error {
	return &Error{Kind: kind, Construct: construct, Name: name, Pos: ps.position(offset), Detail: detail}
}

// finish applies every queued edit and replaces the source
func (p *Preprocessor) finish(ps *pass) error {
	out, err := ps.edits.Apply(ps.src)
	if err != nil {
		return err
	}
	p.log.WithField("edits", ps.edits.Len()).Debug("Applied pass")
	p.Src = out
	return nil
}

// warn records a problem that does not stop the transform, unless the
// preprocessor is strict, where it is returned as an error instead
func (p *Preprocessor) warn(warning *Error) error {
	if p.strict {
		return warning
	}
	p.log.WithFields(log.Fields{
		"construct": warning.Construct,
		"name":      warning.Name,
		"pos":       warning.Pos.String(),
	}).Warn(warning.Kind.Error())
	p.warnings = append(p.warnings, warning)
	return nil
}
