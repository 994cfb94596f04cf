// Package state holds small per-window UI state helpers. Everything here is
// ephemeral: cursor position and viewport scroll never leave the window they
// belong to.
package state

// Cursor tracks the focused row inside a list of n items plus the viewport
// offset used to keep it visible.
type Cursor struct {
	Pos            int
	ViewportOffset int
}

// Clamp constrains the cursor to [0, n). Returns true when the position moved.
func (c *Cursor) Clamp(n int) bool {
	old := c.Pos
	if n <= 0 {
		c.Pos = 0
		c.ViewportOffset = 0
		return old != 0
	}
	if c.Pos < 0 {
		c.Pos = 0
	}
	if c.Pos >= n {
		c.Pos = n - 1
	}
	return c.Pos != old
}

// Move shifts the cursor by delta within [0, n).
func (c *Cursor) Move(delta, n int) bool {
	if n <= 0 {
		c.Pos = 0
		return false
	}
	old := c.Pos
	c.Pos += delta
	c.Clamp(n)
	return c.Pos != old
}

// Home moves to the first item.
func (c *Cursor) Home(n int) bool {
	return c.Move(-c.Pos, n)
}

// End moves to the last item.
func (c *Cursor) End(n int) bool {
	if n <= 0 {
		c.Pos = 0
		return false
	}
	return c.Move(n-1-c.Pos, n)
}

// EnsureVisible adjusts the viewport offset so the cursor stays on screen
// given maxVisible rows.
func (c *Cursor) EnsureVisible(n, maxVisible int) {
	c.Clamp(n)
	if maxVisible <= 0 || n == 0 {
		c.ViewportOffset = 0
		return
	}
	maxOffset := n - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.ViewportOffset > maxOffset {
		c.ViewportOffset = maxOffset
	}
	if c.ViewportOffset < 0 {
		c.ViewportOffset = 0
	}
	if c.Pos < c.ViewportOffset {
		c.ViewportOffset = c.Pos
	}
	upper := c.ViewportOffset + maxVisible - 1
	if c.Pos > upper {
		c.ViewportOffset = c.Pos - maxVisible + 1
		if c.ViewportOffset > maxOffset {
			c.ViewportOffset = maxOffset
		}
		if c.ViewportOffset < 0 {
			c.ViewportOffset = 0
		}
	}
}
