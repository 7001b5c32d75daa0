package program

import "github.com/sarchlab/psxdecomp/instr"

// Cursor is a position in a Program. Copying a Cursor forks the position
// while sharing the Program, which lets a scan explore ahead without
// moving the caller.
type Cursor struct {
	prog *Program
	pos  int
}

// Program returns the program the cursor walks.
func (c *Cursor) Program() *Program {
	return c.prog
}

// Pos returns the current position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Valid reports whether the cursor points at a line.
func (c *Cursor) Valid() bool {
	return c.pos >= 0 && c.pos < c.prog.Len()
}

// Line returns the current line.
func (c *Cursor) Line() *Line {
	return c.prog.At(c.pos)
}

// Command returns the live command of the current line.
func (c *Cursor) Command() instr.Command {
	return c.Line().Command
}

// HasNext reports whether a line exists k positions ahead.
func (c *Cursor) HasNext(k int) bool {
	p := c.pos + k
	return p >= 0 && p < c.prog.Len()
}

// Peek returns the line k positions away from the cursor, or nil.
func (c *Cursor) Peek(k int) *Line {
	if !c.HasNext(k) {
		return nil
	}

	return c.prog.At(c.pos + k)
}

// Next moves forward and reports whether the cursor still points at a
// line.
func (c *Cursor) Next() bool {
	c.pos++
	return c.Valid()
}

// Prev moves backward and reports whether the cursor still points at a
// line.
func (c *Cursor) Prev() bool {
	c.pos--
	return c.Valid()
}

// Seek moves to an absolute position.
func (c *Cursor) Seek(pos int) {
	c.pos = pos
}

// InsertBefore inserts l at the current position. The cursor keeps
// pointing at the same line, which has moved one down.
func (c *Cursor) InsertBefore(l *Line) {
	c.prog.Insert(c.pos, l)
	c.pos++
}

// InsertAfter inserts l right after the current line. The cursor does not
// move.
func (c *Cursor) InsertAfter(l *Line) {
	c.prog.Insert(c.pos+1, l)
}

// Clear removes the current line if it is synthetic and neutralizes it
// otherwise. After removal the cursor points at the previous line, so a
// following Next lands on the line that came after the removed one.
func (c *Cursor) Clear() {
	if c.Line().IsSynthetic() {
		c.Remove()
		return
	}

	c.Line().Neutralize()
}

// Remove deletes the current synthetic line and steps back one position.
func (c *Cursor) Remove() {
	c.prog.Remove(c.pos)
	c.pos--
}
