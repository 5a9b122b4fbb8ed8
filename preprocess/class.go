package preprocess

import (
	"fmt"
	"strings"

	"github.com/NickyBoy89/prec/codegen"
	"github.com/NickyBoy89/prec/keywords"
	"github.com/NickyBoy89/prec/parsetools"
	log "github.com/sirupsen/logrus"
)

// ParseClasses replaces every class declaration with a record declaration,
// rewriting the methods of each class along the way, and then prepends the
// backend's preamble
func (p *Preprocessor) ParseClasses() error {
	ps := p.newPass()

	for _, ind := range parsetools.Find(ps.src, keywords.Class) {
		if err := p.collectClass(ps, ind); err != nil {
			return err
		}
	}

	// Parents may be declared after their children, so only check them once
	// every class is known
	for _, class := range p.classes.Classes() {
		if class.Parent != "" && p.classes.Lookup(class.Parent) == nil {
			if err := p.warn(ps.errorAt(ErrUnknownClass, "parent", class.Parent, class.Offset, "extended by "+class.Name)); err != nil {
				return err
			}
		}
	}

	if err := p.finish(ps); err != nil {
		return err
	}
	p.log.WithField("classes", p.classes.Len()).Debugf("Symbol table:\n%s", p.classes)
	p.Src = p.backend.Preamble() + p.Src
	return nil
}

// collectClass queues the rewrite of the class declaration whose keyword
// starts at `ind`:
//
//	class Name [+Parent] { fields }
func (p *Preprocessor) collectClass(ps *pass, ind int) error {
	c := parsetools.NewCursor(ps.src, ind)
	c.Skip(len(keywords.Class))

	// `class` on its own, such as a C identifier, is not a declaration
	if !parsetools.IsSpace(c.Peek()) {
		return nil
	}
	name := c.CollectIdent()
	if name == "" {
		p.log.WithField("offset", ind).Debug("Skipping class keyword without a name")
		return nil
	}
	if keywords.IsReserved(name) {
		return ps.errorAt(ErrReservedName, "class", name, ind, "")
	}

	parentText, ok := c.CollectUntil(0, parsetools.StopAt("{;"))
	if !ok || c.Peek() != '{' {
		return ps.errorAt(ErrMalformedConstruct, "class", name, ind, "expected `{` after the class name")
	}
	parent := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(parentText), string(keywords.Extend)))
	if parent != "" && !parsetools.IsIdent(parent) {
		return ps.errorAt(ErrMalformedConstruct, "class", name, ind, fmt.Sprintf("invalid parent %q", parent))
	}

	body, bodyStart, err := c.CollectBalanced('{', '}')
	if err != nil {
		return ps.errorAt(ErrUnterminatedBlock, "class", name, ind, err.Error())
	}
	bodyEnd := bodyStart + len(body)

	end := c.Pos()
	// A trailing semicolon belongs to the declaration
	if c.Expect(';') {
		end = c.Pos()
	}

	entry, err := p.classes.Declare(name, parent, ind)
	if err != nil {
		return ps.errorAt(ErrDuplicateClass, "class", name, ind, fmt.Sprintf("first declared at %s", ps.position(entry.Offset)))
	}

	// Methods are rewritten against the same snapshot before the class
	// replacement is queued
	if err := p.collectMethods(ps, name, bodyStart, bodyEnd); err != nil {
		return err
	}

	ps.edits.Defer(ind, end, func(span SpanFunc) (string, error) {
		fields := span(bodyStart, bodyEnd)
		if parent != "" {
			fields += fmt.Sprintf("\n\t%s super;\n", parent)
		}
		return p.backend.EmitClass(codegen.Class{
			Name:     name,
			Parent:   parent,
			Fields:   fields,
			Methods:  entry.Methods(),
			Receiver: p.receiver,
		})
	})

	p.log.WithFields(log.Fields{
		"class":   name,
		"parent":  parent,
		"methods": entry.MethodNames(),
	}).Debug("Found class")
	return nil
}
