package preprocess

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// SpanFunc returns the text of a range of the scanned snapshot, with every
// edit that lies inside that range already applied
type SpanFunc func(start, end int) string

// RenderFunc produces the replacement for an edit when the log is applied
type RenderFunc func(span SpanFunc) (string, error)

// Edit replaces the range [Start, End) of the snapshot a pass scanned.
//
// An edit either carries fixed Text, or a Render function that builds the
// replacement from sub-ranges of the snapshot. Edits that fall inside one of
// those sub-ranges are applied first, so a method body is emitted with its
// call sites already rewritten
type Edit struct {
	Start, End int
	Text       string
	Render     RenderFunc

	children []*Edit
}

// EditLog collects the edits found during one forward scan of a snapshot
type EditLog struct {
	edits []*Edit
}

// Replace queues a fixed replacement
func (l *EditLog) Replace(start, end int, text string) {
	l.edits = append(l.edits, &Edit{Start: start, End: end, Text: text})
}

// Defer queues a replacement that is rendered when the log is applied
func (l *EditLog) Defer(start, end int, render RenderFunc) {
	l.edits = append(l.edits, &Edit{Start: start, End: end, Render: render})
}

func (l *EditLog) Len() int {
	return len(l.edits)
}

// Apply rewrites the snapshot that the edits were collected against.
//
// Edits must either be disjoint, or strictly nested inside a range that their
// enclosing edit renders. Top-level edits are applied from the highest offset
// to the lowest, so the offsets of the ones still waiting are not shifted
func (l *EditLog) Apply(src string) (string, error) {
	roots, err := nest(l.edits, len(src))
	if err != nil {
		return "", err
	}

	for ind := len(roots) - 1; ind >= 0; ind-- {
		edit := roots[ind]
		replacement, err := edit.replacement(src)
		if err != nil {
			return "", err
		}
		src = src[:edit.Start] + replacement + src[edit.End:]
	}
	return src, nil
}

// nest sorts the edits and arranges them into a tree by containment
func nest(edits []*Edit, size int) ([]*Edit, error) {
	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b *Edit) bool {
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End > b.End
	})

	var roots, stack []*Edit
	for _, edit := range sorted {
		if edit.Start < 0 || edit.End < edit.Start || edit.End > size {
			return nil, fmt.Errorf("%w: range [%d, %d) is outside of the source", ErrOverlappingEdits, edit.Start, edit.End)
		}
		edit.children = nil

		for len(stack) > 0 && stack[len(stack)-1].End <= edit.Start {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			roots = append(roots, edit)
		} else {
			parent := stack[len(stack)-1]
			if edit.End > parent.End || (edit.Start == parent.Start && edit.End == parent.End) {
				return nil, fmt.Errorf("%w: [%d, %d) and [%d, %d)", ErrOverlappingEdits, parent.Start, parent.End, edit.Start, edit.End)
			}
			parent.children = append(parent.children, edit)
		}
		stack = append(stack, edit)
	}
	return roots, nil
}

// replacement renders an edit, handing its render function access to the
// snapshot with the nested edits applied
func (e *Edit) replacement(src string) (string, error) {
	if e.Render == nil {
		if len(e.children) > 0 {
			return "", fmt.Errorf("%w: fixed edit [%d, %d) would discard %d nested edits", ErrOverlappingEdits, e.Start, e.End, len(e.children))
		}
		return e.Text, nil
	}

	used := make([]bool, len(e.children))
	var spanErr error
	span := func(start, end int) string {
		var inside []*Edit
		for ind, child := range e.children {
			switch {
			case child.Start >= start && child.End <= end:
				inside = append(inside, child)
				used[ind] = true
			case child.Start < end && child.End > start:
				if spanErr == nil {
					spanErr = fmt.Errorf("%w: [%d, %d) crosses the rendered range [%d, %d)", ErrOverlappingEdits, child.Start, child.End, start, end)
				}
			}
		}
		text, err := render(src, start, end, inside)
		if err != nil && spanErr == nil {
			spanErr = err
		}
		return text
	}

	text, err := e.Render(span)
	if err != nil {
		return "", err
	}
	if spanErr != nil {
		return "", spanErr
	}
	for ind, child := range e.children {
		if !used[ind] {
			return "", fmt.Errorf("%w: nested edit [%d, %d) is outside every range rendered by [%d, %d)", ErrOverlappingEdits, child.Start, child.End, e.Start, e.End)
		}
	}
	return text, nil
}

// render copies src[start:end], substituting each of the given edits, which
// are sorted and disjoint
func render(src string, start, end int, edits []*Edit) (string, error) {
	var out strings.Builder
	pos := start
	for _, edit := range edits {
		out.WriteString(src[pos:edit.Start])
		replacement, err := edit.replacement(src)
		if err != nil {
			return "", err
		}
		out.WriteString(replacement)
		pos = edit.End
	}
	out.WriteString(src[pos:end])
	return out.String(), nil
}
