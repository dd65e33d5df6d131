package document

// Selection is a range inside one text block, addressed by the block's ordinal
// in document order and rune offsets. Anchor == Head is a plain cursor.
type Selection struct {
	Block  int
	Anchor int
	Head   int
}

// Cursor returns a collapsed selection.
func Cursor(block, offset int) Selection {
	return Selection{Block: block, Anchor: offset, Head: offset}
}

func (s Selection) From() int {
	if s.Anchor < s.Head {
		return s.Anchor
	}
	return s.Head
}

func (s Selection) To() int {
	if s.Anchor > s.Head {
		return s.Anchor
	}
	return s.Head
}

func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

func (s Selection) collapse(offset int) Selection {
	return Cursor(s.Block, offset)
}

// clampSelection keeps a selection inside the document's bounds.
func clampSelection(d *Document, s Selection) Selection {
	blocks := d.TextBlocks()
	if s.Block < 0 {
		s.Block = 0
	}
	if s.Block >= len(blocks) {
		s.Block = len(blocks) - 1
	}
	n := len(d.cells(blocks[s.Block]))
	s.Anchor = clamp(s.Anchor, 0, n)
	s.Head = clamp(s.Head, 0, n)
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
