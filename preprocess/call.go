package preprocess

import (
	"strings"

	"github.com/NickyBoy89/prec/keywords"
	"github.com/NickyBoy89/prec/parsetools"
	log "github.com/sirupsen/logrus"
)

// ParseCalls rewrites every call site of a method in a pass of its own
func (p *Preprocessor) ParseCalls(method string) error {
	ps := p.newPass()
	if err := p.collectCalls(ps, method); err != nil {
		return err
	}
	return p.finish(ps)
}

// collectCalls queues a rewrite for every call of the method anywhere in the
// source, passing the receiver as the first argument:
//
//	recv->method(args)  =>  recv->method(recv, args)
//
// Calls are searched for by name only, so the call sites of a method name are
// queued once per pass, however many classes declare it
func (p *Preprocessor) collectCalls(ps *pass, method string) error {
	if p.calls[method] {
		return nil
	}
	p.calls[method] = true

	for _, ind := range parsetools.Find(ps.src, keywords.Arrow+method) {
		if err := p.collectCall(ps, method, ind); err != nil {
			return err
		}
	}
	return nil
}

// collectCall queues the rewrite of the call whose `->` starts at `ind`
func (p *Preprocessor) collectCall(ps *pass, method string, ind int) error {
	c := parsetools.NewCursor(ps.src, ind)
	c.Skip(len(keywords.Arrow) + len(method))
	c.SkipSpace()
	// Reading the method's field without calling it
	if c.Peek() != '(' {
		return nil
	}

	args, argsStart, err := c.CollectBalanced('(', ')')
	if err != nil {
		return ps.errorAt(ErrUnterminatedBlock, "call", method, ind, err.Error())
	}
	argsEnd := argsStart + len(args)
	end := c.Pos()

	recvStart := receiverStart(ps.src, ind)
	if recvStart == ind {
		return ps.errorAt(ErrMalformedConstruct, "call", method, ind, "missing receiver before `->`")
	}
	hasArgs := strings.TrimSpace(args) != ""

	ps.edits.Defer(recvStart, end, func(span SpanFunc) (string, error) {
		recv := span(recvStart, ind)
		call := recv + keywords.Arrow + method + "(" + recv
		if hasArgs {
			call += ", " + span(argsStart, argsEnd)
		}
		return call + ")", nil
	})

	p.log.WithFields(log.Fields{
		"method":   method,
		"receiver": ps.src[recvStart:ind],
	}).Debug("Found call site")
	return nil
}

// receiverStart walks back from the `->` at `arrow` over the receiver
// expression, which is made of identifiers joined by `.` or `->`, optionally
// indexed with `[...]`. It stops at whitespace, commas, and any other
// punctuation
func receiverStart(src string, arrow int) int {
	ci := arrow
	for ci > 0 {
		switch prev := src[ci-1]; {
		case parsetools.IsIdentChar(prev) || prev == '.':
			ci--
		case prev == '>' && ci > 1 && src[ci-2] == '-' && ci < arrow:
			ci -= 2
		case prev == ']':
			open, err := parsetools.IndexOfOpeningChar(src, ci-1, '[', ']')
			if err != nil {
				return ci
			}
			ci = open
		default:
			return ci
		}
	}
	return ci
}
