package document

import "strings"

// Editor owns the current document, the selection and the undo history.
type Editor struct {
	doc     *Document
	sel     Selection
	history *History
	version uint64
	typing  bool
}

// NewEditor returns an editor over an empty document.
func NewEditor(historyLimit int) *Editor {
	return NewEditorFrom(New(), historyLimit)
}

// NewEditorFrom returns an editor over doc with the cursor at its start.
func NewEditorFrom(doc *Document, historyLimit int) *Editor {
	if doc == nil {
		doc = New()
	}
	return &Editor{
		doc:     doc.normalize(),
		history: newHistory(historyLimit),
	}
}

func (e *Editor) Document() *Document   { return e.doc }
func (e *Editor) Selection() Selection  { return e.sel }
func (e *Editor) History() *History     { return e.history }

// Version increases on every change to the document, undo and redo included.
func (e *Editor) Version() uint64 { return e.version }

// Load replaces the whole document as a single undoable edit.
func (e *Editor) Load(doc *Document) bool {
	if doc == nil {
		doc = New()
	}
	return e.commit(doc.clone(), Cursor(0, 0), false)
}

// Select moves the selection. It never touches history.
func (e *Editor) Select(s Selection) {
	e.sel = clampSelection(e.doc, s)
	e.typing = false
}

// commit installs a mutated working copy. Grouped edits following another
// grouped edit reuse the previous history entry.
func (e *Editor) commit(work *Document, sel Selection, group bool) bool {
	next := work.normalize()
	sel = clampSelection(next, sel)
	if next.Equal(e.doc) {
		if sel != e.sel {
			e.sel = sel
			e.typing = false
		}
		return false
	}

	if !(group && e.typing) {
		e.history.push(snapshot{doc: e.doc, sel: e.sel})
	}
	e.doc = next
	e.sel = sel
	e.typing = group
	e.version++
	return true
}

// Undo restores the state before the most recent edit.
func (e *Editor) Undo() bool {
	prev, ok := e.history.undo(snapshot{doc: e.doc, sel: e.sel})
	if !ok {
		return false
	}
	e.doc, e.sel = prev.doc, prev.sel
	e.typing = false
	e.version++
	return true
}

// Redo re-applies the most recently undone edit.
func (e *Editor) Redo() bool {
	next, ok := e.history.redo(snapshot{doc: e.doc, sel: e.sel})
	if !ok {
		return false
	}
	e.doc, e.sel = next.doc, next.sel
	e.typing = false
	e.version++
	return true
}

// InsertText replaces the selection with text. Newlines split blocks outside
// code blocks. Consecutive single-line inserts form one undo step.
func (e *Editor) InsertText(text string) bool {
	if text == "" {
		return false
	}
	work := e.doc.clone()
	sel := deleteRange(work, e.sel)
	tb := work.TextBlocks()[sel.Block]

	group := e.sel.Empty() && !strings.Contains(text, "\n")
	if work.nodes[tb].Kind == KindCodeBlock {
		sel = insertInline(work, sel, text, inheritedMarks(e.doc, e.sel))
		return e.commit(work, sel, group)
	}

	marks := inheritedMarks(e.doc, e.sel)
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			sel = splitBlock(work, sel)
		}
		sel = insertInline(work, sel, line, marks)
	}
	return e.commit(work, sel, group)
}

// SplitBlock breaks the current block at the cursor, as Enter does.
func (e *Editor) SplitBlock() bool {
	work := e.doc.clone()
	sel := splitBlock(work, deleteRange(work, e.sel))
	return e.commit(work, sel, false)
}

// DeleteBackward removes the selection or the rune before the cursor. At the
// start of a block it unwraps or joins the block with the previous one.
func (e *Editor) DeleteBackward() bool {
	work := e.doc.clone()
	if !e.sel.Empty() {
		return e.commit(work, deleteRange(work, e.sel), false)
	}

	tb := work.TextBlocks()[e.sel.Block]
	if e.sel.Head > 0 {
		cs := work.cells(tb)
		off := e.sel.Head
		work.setCells(tb, append(cs[:off-1:off-1], cs[off:]...))
		return e.commit(work, e.sel.collapse(off-1), false)
	}

	n := work.nodes[tb]
	if n.Kind == KindHeading || n.Kind == KindCodeBlock {
		work.nodes[tb].Kind = KindParagraph
		work.nodes[tb].Level = 0
		work.nodes[tb].Language = ""
		return e.commit(work, e.sel, false)
	}

	parents := work.parents()
	p := parents[tb]
	switch {
	case work.nodes[p].Kind == KindListItem && work.nodes[p].Children[0] == tb:
		liftItem(work, p, parents)
		return e.commit(work, e.sel, false)
	case work.nodes[p].Kind == KindBlockquote:
		liftChild(work, p, tb, parents)
		return e.commit(work, e.sel, false)
	}

	sel, ok := joinBlocks(work, e.sel.Block)
	if !ok {
		return false
	}
	return e.commit(work, sel, false)
}

// DeleteForward removes the selection or the rune after the cursor, joining the
// next block at the end of a block.
func (e *Editor) DeleteForward() bool {
	work := e.doc.clone()
	if !e.sel.Empty() {
		return e.commit(work, deleteRange(work, e.sel), false)
	}

	blocks := work.TextBlocks()
	tb := blocks[e.sel.Block]
	cs := work.cells(tb)
	if off := e.sel.Head; off < len(cs) {
		work.setCells(tb, append(cs[:off:off], cs[off+1:]...))
		return e.commit(work, e.sel, false)
	}
	if e.sel.Block+1 >= len(blocks) {
		return false
	}
	sel, _ := joinBlocks(work, e.sel.Block+1)
	return e.commit(work, sel, false)
}

// Direction is a cursor movement.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
	LineStart
	LineEnd
)

// Move moves the cursor. With extend the head moves and the anchor stays, but a
// selection never leaves its block.
func (e *Editor) Move(dir Direction, extend bool) {
	blocks := e.doc.TextBlocks()
	length := func(i int) int { return len(e.doc.cells(blocks[i])) }
	s := e.sel
	n := length(s.Block)

	if extend {
		switch dir {
		case Left:
			s.Head = clamp(s.Head-1, 0, n)
		case Right:
			s.Head = clamp(s.Head+1, 0, n)
		case Up, LineStart:
			s.Head = 0
		case Down, LineEnd:
			s.Head = n
		}
		e.Select(s)
		return
	}

	switch dir {
	case Left:
		switch {
		case !s.Empty():
			s = s.collapse(s.From())
		case s.Head > 0:
			s = s.collapse(s.Head - 1)
		case s.Block > 0:
			s = Cursor(s.Block-1, length(s.Block-1))
		}
	case Right:
		switch {
		case !s.Empty():
			s = s.collapse(s.To())
		case s.Head < n:
			s = s.collapse(s.Head + 1)
		case s.Block+1 < len(blocks):
			s = Cursor(s.Block+1, 0)
		}
	case Up:
		if s.Block > 0 {
			s = Cursor(s.Block-1, min(s.Head, length(s.Block-1)))
		} else {
			s = s.collapse(0)
		}
	case Down:
		if s.Block+1 < len(blocks) {
			s = Cursor(s.Block+1, min(s.Head, length(s.Block+1)))
		} else {
			s = s.collapse(n)
		}
	case LineStart:
		s = s.collapse(0)
	case LineEnd:
		s = s.collapse(n)
	}
	e.Select(s)
}

func inheritedMarks(d *Document, s Selection) Mark {
	cs := d.cells(d.TextBlocks()[s.Block])
	from := s.From()
	switch {
	case !s.Empty() && from < len(cs):
		return cs[from].m
	case from > 0 && from <= len(cs):
		return cs[from-1].m
	default:
		return 0
	}
}

func deleteRange(d *Document, s Selection) Selection {
	if s.Empty() {
		return s
	}
	tb := d.TextBlocks()[s.Block]
	cs := d.cells(tb)
	from, to := s.From(), s.To()
	d.setCells(tb, append(cs[:from:from], cs[to:]...))
	return s.collapse(from)
}

func insertInline(d *Document, s Selection, text string, marks Mark) Selection {
	if text == "" {
		return s
	}
	tb := d.TextBlocks()[s.Block]
	cs := d.cells(tb)
	off := s.Head

	inserted := make([]cell, 0, len(text))
	for _, r := range text {
		inserted = append(inserted, cell{r: r, m: marks})
	}
	out := make([]cell, 0, len(cs)+len(inserted))
	out = append(out, cs[:off]...)
	out = append(out, inserted...)
	out = append(out, cs[off:]...)
	d.setCells(tb, out)
	return s.collapse(off + len(inserted))
}

func splitBlock(d *Document, s Selection) Selection {
	tb := d.TextBlocks()[s.Block]
	n := d.nodes[tb]
	if n.Kind == KindCodeBlock {
		return insertInline(d, s, "\n", 0)
	}

	parents := d.parents()
	p := parents[tb]
	cs := d.cells(tb)
	off := s.Head
	head := append([]cell(nil), cs[:off]...)
	tail := append([]cell(nil), cs[off:]...)

	if d.nodes[p].Kind == KindListItem && d.nodes[p].Children[0] == tb {
		if len(cs) == 0 && len(d.nodes[p].Children) == 1 {
			liftItem(d, p, parents)
			return Cursor(s.Block, 0)
		}
		rest := d.nodes[p].Children[1:]
		para := d.add(Node{Kind: KindParagraph})
		d.setCells(para, tail)
		d.setCells(tb, head)
		item := d.add(Node{Kind: KindListItem, Children: append([]NodeID{para}, rest...)})
		d.nodes[p].Children = []NodeID{tb}
		d.insertAfter(parents[p], p, item)
		return Cursor(s.Block+1, 0)
	}

	next := Node{Kind: n.Kind, Level: n.Level}
	if len(tail) == 0 {
		next = Node{Kind: KindParagraph}
	}
	id := d.add(next)
	d.setCells(id, tail)
	d.setCells(tb, head)
	d.insertAfter(p, tb, id)
	return Cursor(s.Block+1, 0)
}

// joinBlocks appends text block number ordinal to the one before it.
func joinBlocks(d *Document, ordinal int) (Selection, bool) {
	if ordinal <= 0 {
		return Selection{}, false
	}
	blocks := d.TextBlocks()
	if ordinal >= len(blocks) {
		return Selection{}, false
	}
	prev, cur := blocks[ordinal-1], blocks[ordinal]
	pc := d.cells(prev)
	cc := d.cells(cur)
	if d.nodes[prev].Kind == KindCodeBlock {
		for i := range cc {
			cc[i].m = 0
		}
	}
	d.setCells(prev, append(pc, cc...))
	d.remove(d.parents()[cur], cur)
	return Cursor(ordinal-1, len(pc)), true
}

// liftItem replaces an item's list with the items before it, the item's own
// blocks and the items after it.
func liftItem(d *Document, item NodeID, parents []NodeID) {
	list := parents[item]
	liftChild(d, list, item, parents)
	// The item itself was hoisted; unwrap it into its blocks.
	outer := parents[list]
	idx := d.indexOf(outer, item)
	d.replaceChild(outer, idx, d.nodes[item].Children...)
}

// liftChild moves child out of container, splitting the container around it.
func liftChild(d *Document, container, child NodeID, parents []NodeID) {
	outer := parents[container]
	idx := d.indexOf(container, child)
	children := d.nodes[container].Children
	before := append([]NodeID(nil), children[:idx]...)
	after := append([]NodeID(nil), children[idx+1:]...)

	var with []NodeID
	if len(before) > 0 {
		d.nodes[container].Children = before
		with = append(with, container)
	}
	with = append(with, child)
	if len(after) > 0 {
		with = append(with, d.add(Node{Kind: d.nodes[container].Kind, Children: after}))
	}
	d.replaceChild(outer, d.indexOf(outer, container), with...)
}

// wrap puts target inside a new container chain, outermost first, and returns
// the outermost container.
func wrap(d *Document, target NodeID, parents []NodeID, kinds ...Kind) NodeID {
	parent := parents[target]
	idx := d.indexOf(parent, target)
	inner := target
	for i := len(kinds) - 1; i >= 0; i-- {
		inner = d.add(Node{Kind: kinds[i], Children: []NodeID{inner}})
	}
	d.replaceChild(parent, idx, inner)
	return inner
}
