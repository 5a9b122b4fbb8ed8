package preprocess

import (
	"strings"

	"github.com/NickyBoy89/prec/codegen"
	"github.com/NickyBoy89/prec/keywords"
	"github.com/NickyBoy89/prec/parsetools"
	"github.com/NickyBoy89/prec/symbol"
	log "github.com/sirupsen/logrus"
)

// ParseMethods rewrites the methods of a single class, and the call sites of
// those methods, in a pass of its own. A class that has not been declared
// yet is registered without a parent
func (p *Preprocessor) ParseMethods(class string) error {
	ps := p.newPass()
	if p.classes.Lookup(class) == nil {
		if _, err := p.classes.Declare(class, "", -1); err != nil {
			return err
		}
	}
	if err := p.collectMethods(ps, class, -1, -1); err != nil {
		return err
	}
	return p.finish(ps)
}

// collectMethods queues a rewrite for every method definition of the class.
// Methods can only be declared outside of the class body, which lies between
// `bodyStart` and `bodyEnd` (negative when the class body is not known)
func (p *Preprocessor) collectMethods(ps *pass, class string, bodyStart, bodyEnd int) error {
	entry := p.classes.Lookup(class)
	for _, ind := range parsetools.Find(ps.src, class+keywords.Scope) {
		if ind >= bodyStart && ind < bodyEnd {
			return ps.errorAt(ErrMalformedConstruct, "method", class+keywords.Scope, ind, "methods must be declared outside of the class body")
		}
		if err := p.collectMethod(ps, entry, ind); err != nil {
			return err
		}
	}
	return nil
}

// collectMethod queues the rewrite of the method whose class qualifier starts
// at `ind`:
//
//	ReturnType Class::name(params) { body }
//	ReturnType Class::name(params);
func (p *Preprocessor) collectMethod(ps *pass, entry *symbol.ClassEntry, ind int) error {
	class := entry.Name

	// The return type is whatever precedes the qualifier on the same line,
	// back to the end of the previous statement or block
	returnText, start := parsetools.ExtractBackward(ps.src, ind, parsetools.StopAt("\n;{}"))
	for start < ind && parsetools.IsSpace(ps.src[start]) {
		start++
	}
	returnType := strings.TrimSpace(returnText)

	c := parsetools.NewCursor(ps.src, ind)
	name, ok := c.CollectUntil(len(class)+len(keywords.Scope), parsetools.StopAt("(;{}\n"))
	name = strings.TrimSpace(name)
	if !ok || c.Peek() != '(' || !parsetools.IsIdent(name) {
		return ps.errorAt(ErrMalformedConstruct, "method", class+keywords.Scope+name, ind, "expected a method name followed by `(`")
	}
	if keywords.IsReserved(name) {
		return ps.errorAt(ErrReservedName, "method", class+keywords.Scope+name, ind, "")
	}
	if returnType == "" {
		return ps.errorAt(ErrMalformedConstruct, "method", class+keywords.Scope+name, ind, "missing return type")
	}

	params, paramsStart, err := c.CollectBalanced('(', ')')
	if err != nil {
		return ps.errorAt(ErrUnterminatedBlock, "method", class+keywords.Scope+name, ind, err.Error())
	}
	paramsEnd := paramsStart + len(params)

	var body string
	var bodyStart int
	prototype := false

	c.SkipSpace()
	switch c.Peek() {
	case ';':
		prototype = true
		c.Skip(1)
	case '{':
		body, bodyStart, err = c.CollectBalanced('{', '}')
		if err != nil {
			return ps.errorAt(ErrUnterminatedBlock, "method", class+keywords.Scope+name, ind, err.Error())
		}
	default:
		return ps.errorAt(ErrMalformedConstruct, "method", class+keywords.Scope+name, ind, "expected a method body or `;`")
	}
	bodyEnd := bodyStart + len(body)
	end := c.Pos()

	if existing := entry.FindMethod(name); existing != nil && !existing.Prototype && !prototype {
		if err := p.warn(ps.errorAt(ErrMalformedConstruct, "method", class+keywords.Scope+name, ind, "defined more than once")); err != nil {
			return err
		}
	}
	entry.AddMethod(symbol.Method{
		Name:       name,
		ReturnType: returnType,
		Params:     strings.TrimSpace(params),
		Prototype:  prototype,
	})

	if !prototype {
		if err := p.collectSuper(ps, entry, bodyStart, bodyEnd); err != nil {
			return err
		}
	}

	// Call sites are queued against the snapshot as well, so that any inside
	// this method's body are nested within its rewrite
	if err := p.collectCalls(ps, name); err != nil {
		return err
	}

	ps.edits.Defer(start, end, func(span SpanFunc) (string, error) {
		method := codegen.Method{
			Class:      class,
			Name:       name,
			ReturnType: returnType,
			Params:     codegen.SplitParams(span(paramsStart, paramsEnd)),
			Receiver:   p.receiver,
			Prototype:  prototype,
		}
		if !prototype {
			method.Body = span(bodyStart, bodyEnd)
		}
		return p.backend.EmitMethod(method)
	})

	p.log.WithFields(log.Fields{
		"class":     class,
		"method":    name,
		"prototype": prototype,
	}).Debug("Found method")
	return nil
}

// collectSuper rewrites every `super` in a method body into an access of the
// receiver's embedded parent. Member accesses named `super`, like `a.super`,
// are left alone
func (p *Preprocessor) collectSuper(ps *pass, entry *symbol.ClassEntry, bodyStart, bodyEnd int) error {
	for _, offset := range parsetools.Find(ps.src[bodyStart:bodyEnd], keywords.Super) {
		ind := bodyStart + offset
		if isMemberAccess(ps.src, ind) {
			continue
		}
		if entry.Parent == "" {
			if err := p.warn(ps.errorAt(ErrMalformedConstruct, "super", entry.Name, ind, "class has no parent")); err != nil {
				return err
			}
		}
		ps.edits.Replace(ind, ind+len(keywords.Super), p.receiver+keywords.Arrow+keywords.Super)
	}
	return nil
}

// isMemberAccess reports whether the identifier at `ind` is preceded by `.`
// or `->`
func isMemberAccess(src string, ind int) bool {
	ci := ind
	for ci > 0 && parsetools.IsSpace(src[ci-1]) {
		ci--
	}
	return strings.HasSuffix(src[:ci], ".") || strings.HasSuffix(src[:ci], keywords.Arrow)
}
