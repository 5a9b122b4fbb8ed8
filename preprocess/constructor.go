package preprocess

import (
	"strings"

	"github.com/NickyBoy89/prec/codegen"
	"github.com/NickyBoy89/prec/keywords"
	"github.com/NickyBoy89/prec/parsetools"
	log "github.com/sirupsen/logrus"
)

// ParseConstructors replaces every `new Class(args)` with a construction
// expression. Instances of a known class are given a reference to every one
// of its methods, in declaration order, after the written arguments
func (p *Preprocessor) ParseConstructors() error {
	ps := p.newPass()

	for _, ind := range parsetools.Find(ps.src, keywords.New) {
		if err := p.collectConstructor(ps, ind); err != nil {
			return err
		}
	}

	return p.finish(ps)
}

func (p *Preprocessor) collectConstructor(ps *pass, ind int) error {
	c := parsetools.NewCursor(ps.src, ind)
	c.Skip(len(keywords.New))
	if !parsetools.IsSpace(c.Peek()) {
		return nil
	}
	class := c.CollectIdent()
	c.SkipSpace()
	// `new` is a valid C identifier, so anything that is not `new Name(` is
	// left alone
	if class == "" || c.Peek() != '(' {
		return nil
	}

	args, argsStart, err := c.CollectBalanced('(', ')')
	if err != nil {
		return ps.errorAt(ErrUnterminatedBlock, "new", class, ind, err.Error())
	}
	argsEnd := argsStart + len(args)
	end := c.Pos()

	var refs []string
	if entry := p.classes.Lookup(class); entry != nil {
		for _, method := range entry.MethodNames() {
			refs = append(refs, codegen.FunctionName(class, method))
		}
	} else if err := p.warn(ps.errorAt(ErrUnknownClass, "new", class, ind, "")); err != nil {
		return err
	}

	ps.edits.Defer(ind, end, func(span SpanFunc) (string, error) {
		return p.backend.EmitConstruct(codegen.Construct{
			Class: class,
			Args:  strings.TrimSpace(SpliceArgs(span(argsStart, argsEnd), refs)),
		})
	})

	p.log.WithFields(log.Fields{
		"class":   class,
		"methods": refs,
	}).Debug("Found constructor")
	return nil
}

// SpliceArgs adds the extra arguments to a constructor's argument list.
// When the arguments end with a `{...}` aggregate, the extra arguments go
// inside it, just before its closing brace.
// A separator is only added if there is already an argument to separate
// from, and the arguments don't already end with a comma
func SpliceArgs(args string, extra []string) string {
	if len(extra) == 0 {
		return args
	}
	joined := strings.Join(extra, ", ")
	trimmed := strings.TrimRight(args, " \t\r\n")

	if strings.HasSuffix(trimmed, "}") {
		if _, err := parsetools.IndexOfOpeningChar(trimmed, len(trimmed)-1, '{', '}'); err == nil {
			closing := len(trimmed) - 1
			// Never shorter than the aggregate's `{`
			before := strings.TrimRight(trimmed[:closing], " \t\r\n")
			return before + separator(before) + joined + trimmed[len(before):]
		}
	}
	return trimmed + separator(trimmed) + joined
}

func separator(before string) string {
	before = strings.TrimSpace(before)
	switch {
	case before == "" || strings.HasSuffix(before, "{"):
		return ""
	case strings.HasSuffix(before, ","):
		return " "
	}
	return ", "
}
