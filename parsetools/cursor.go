package parsetools

// Cursor tracks a read position inside a source buffer while the components
// of a construct are pulled out of it one after another
type Cursor struct {
	src string
	pos int
}

func NewCursor(src string, pos int) *Cursor {
	return &Cursor{src: src, pos: pos}
}

func (c *Cursor) Pos() int {
	return c.pos
}

// Done reports whether the cursor reached the end of the source
func (c *Cursor) Done() bool {
	return c.pos >= len(c.src)
}

// Peek returns the character under the cursor, or 0 at the end of the source
func (c *Cursor) Peek() byte {
	if c.Done() {
		return 0
	}
	return c.src[c.pos]
}

func (c *Cursor) Skip(n int) {
	c.pos += n
	if c.pos > len(c.src) {
		c.pos = len(c.src)
	}
}

func (c *Cursor) SkipSpace() {
	for !c.Done() && IsSpace(c.src[c.pos]) {
		c.pos++
	}
}

// Expect consumes `b` if it is the next non-blank character
func (c *Cursor) Expect(b byte) bool {
	c.SkipSpace()
	if c.Peek() != b {
		return false
	}
	c.pos++
	return true
}

// CollectUntil skips `skip` characters, then collects until `stop` matches.
// The cursor is left on the stop character
func (c *Cursor) CollectUntil(skip int, stop func(byte) bool) (string, bool) {
	text, next, ok := Extract(c.src, c.pos, skip, stop)
	c.pos = next
	return text, ok
}

// CollectIdent collects the identifier starting at the next non-blank
// character, which is empty if there is none
func (c *Cursor) CollectIdent() string {
	c.SkipSpace()
	if !IsIdentStart(c.Peek()) {
		return ""
	}
	text, _ := c.CollectUntil(0, func(b byte) bool { return !IsIdentChar(b) })
	return text
}

// CollectBalanced expects the next non-blank character to be `open`, and
// collects everything up to its balancing `close`. It returns the inner text
// and the offset where it starts, and leaves the cursor after `close`
func (c *Cursor) CollectBalanced(open, close byte) (string, int, error) {
	c.SkipSpace()
	end, err := IndexOfMatchingChar(c.src, c.pos, open, close)
	if err != nil {
		return "", c.pos, err
	}
	start := c.pos + 1
	c.pos = end + 1
	return c.src[start:end], start, nil
}
