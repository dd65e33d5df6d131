package document

import (
	"fmt"
	"strings"
)

// Command is a structured editing operation exposed on the toolbar.
type Command int

const (
	CmdBold Command = iota + 1
	CmdItalic
	CmdHeading1
	CmdHeading2
	CmdHeading3
	CmdBulletList
	CmdOrderedList
	CmdBlockquote
	CmdCodeBlock
	CmdUndo
	CmdRedo
)

// Commands lists every command in toolbar order.
var Commands = []Command{
	CmdBold, CmdItalic,
	CmdHeading1, CmdHeading2, CmdHeading3,
	CmdBulletList, CmdOrderedList, CmdBlockquote, CmdCodeBlock,
	CmdUndo, CmdRedo,
}

var commandNames = map[Command]string{
	CmdBold:        "bold",
	CmdItalic:      "italic",
	CmdHeading1:    "h1",
	CmdHeading2:    "h2",
	CmdHeading3:    "h3",
	CmdBulletList:  "bulletList",
	CmdOrderedList: "orderedList",
	CmdBlockquote:  "blockquote",
	CmdCodeBlock:   "codeBlock",
	CmdUndo:        "undo",
	CmdRedo:        "redo",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

func (c Command) headingLevel() int {
	switch c {
	case CmdHeading1:
		return 1
	case CmdHeading2:
		return 2
	case CmdHeading3:
		return 3
	}
	return 0
}

// Can reports whether Apply(cmd) would be allowed in the current state.
func (e *Editor) Can(cmd Command) bool {
	switch cmd {
	case CmdBold, CmdItalic:
		if e.sel.Empty() {
			return false
		}
		return e.doc.nodes[e.currentBlock()].Kind != KindCodeBlock
	case CmdHeading1, CmdHeading2, CmdHeading3,
		CmdBulletList, CmdOrderedList, CmdBlockquote, CmdCodeBlock:
		return true
	case CmdUndo:
		return e.history.CanUndo()
	case CmdRedo:
		return e.history.CanRedo()
	default:
		return false
	}
}

// Apply runs cmd. Inapplicable commands are a no-op and report false.
func (e *Editor) Apply(cmd Command) bool {
	if !e.Can(cmd) {
		return false
	}

	switch cmd {
	case CmdUndo:
		return e.Undo()
	case CmdRedo:
		return e.Redo()
	}

	work := e.doc.clone()
	tb := work.TextBlocks()[e.sel.Block]
	parents := work.parents()

	switch cmd {
	case CmdBold:
		toggleMark(work, tb, e.sel, MarkBold)
	case CmdItalic:
		toggleMark(work, tb, e.sel, MarkItalic)
	case CmdHeading1, CmdHeading2, CmdHeading3:
		level := cmd.headingLevel()
		n := &work.nodes[tb]
		if n.Kind == KindHeading && n.Level == level {
			n.Kind, n.Level = KindParagraph, 0
		} else {
			n.Kind, n.Level, n.Language = KindHeading, level, ""
			joinLines(work, tb)
		}
	case CmdCodeBlock:
		n := &work.nodes[tb]
		if n.Kind == KindCodeBlock {
			n.Kind, n.Language = KindParagraph, ""
		} else {
			n.Kind, n.Level = KindCodeBlock, 0
		}
	case CmdBlockquote:
		if quote, child, ok := nearestAncestor(work, tb, parents, KindBlockquote); ok {
			liftChild(work, quote, child, parents)
		} else {
			wrap(work, tb, parents, KindBlockquote)
		}
	case CmdBulletList, CmdOrderedList:
		kind := KindBulletList
		if cmd == CmdOrderedList {
			kind = KindOrderedList
		}
		if item, _, ok := nearestAncestor(work, tb, parents, KindListItem); ok {
			list := parents[item]
			if work.nodes[list].Kind == kind {
				liftItem(work, item, parents)
			} else {
				work.nodes[list].Kind = kind
			}
		} else {
			parent := parents[tb]
			list := wrap(work, tb, parents, kind, KindListItem)
			joinSiblingLists(work, parent, list)
		}
	default:
		return false
	}

	return e.commit(work, e.sel, false)
}

// IsActive reports whether cmd's formatting applies at the selection.
func (e *Editor) IsActive(cmd Command) bool {
	tb := e.currentBlock()
	n := e.doc.nodes[tb]
	parents := e.doc.parents()

	switch cmd {
	case CmdBold:
		return e.marksActive(MarkBold)
	case CmdItalic:
		return e.marksActive(MarkItalic)
	case CmdHeading1, CmdHeading2, CmdHeading3:
		return n.Kind == KindHeading && n.Level == cmd.headingLevel()
	case CmdCodeBlock:
		return n.Kind == KindCodeBlock
	case CmdBlockquote:
		_, _, ok := nearestAncestor(e.doc, tb, parents, KindBlockquote)
		return ok
	case CmdBulletList, CmdOrderedList:
		item, _, ok := nearestAncestor(e.doc, tb, parents, KindListItem)
		if !ok {
			return false
		}
		want := KindBulletList
		if cmd == CmdOrderedList {
			want = KindOrderedList
		}
		return e.doc.nodes[parents[item]].Kind == want
	default:
		return false
	}
}

func (e *Editor) currentBlock() NodeID {
	return e.doc.TextBlocks()[e.sel.Block]
}

func (e *Editor) marksActive(m Mark) bool {
	cs := e.doc.cells(e.currentBlock())
	if e.sel.Empty() {
		return inheritedMarks(e.doc, e.sel)&m != 0
	}
	for _, c := range cs[e.sel.From():e.sel.To()] {
		if c.m&m == 0 {
			return false
		}
	}
	return true
}

// toggleMark removes m when the whole range carries it and adds it otherwise.
func toggleMark(d *Document, tb NodeID, s Selection, m Mark) {
	cs := d.cells(tb)
	from, to := s.From(), s.To()
	all := true
	for _, c := range cs[from:to] {
		if c.m&m == 0 {
			all = false
			break
		}
	}
	for i := from; i < to; i++ {
		if all {
			cs[i].m &^= m
		} else {
			cs[i].m |= m
		}
	}
	d.setCells(tb, cs)
}

// nearestAncestor finds the closest ancestor of id with the given kind and the
// ancestor's child on the path to id.
func nearestAncestor(d *Document, id NodeID, parents []NodeID, kind Kind) (NodeID, NodeID, bool) {
	child := id
	for p := parents[id]; p >= 0; p = parents[p] {
		if d.nodes[p].Kind == kind {
			return p, child, true
		}
		child = p
	}
	return 0, 0, false
}

// joinSiblingLists merges list into the lists of the same kind directly before
// and after it.
func joinSiblingLists(d *Document, parent, list NodeID) {
	kind := d.nodes[list].Kind
	idx := d.indexOf(parent, list)
	children := d.nodes[parent].Children

	if idx+1 < len(children) && d.nodes[children[idx+1]].Kind == kind {
		next := children[idx+1]
		d.nodes[list].Children = append(d.nodes[list].Children, d.nodes[next].Children...)
		d.remove(parent, next)
	}
	if idx > 0 && d.nodes[children[idx-1]].Kind == kind {
		prev := children[idx-1]
		d.nodes[prev].Children = append(d.nodes[prev].Children, d.nodes[list].Children...)
		d.remove(parent, list)
	}
}

// joinLines replaces line breaks in a text block with spaces. Headings hold a
// single line.
func joinLines(d *Document, block NodeID) {
	for _, c := range d.nodes[block].Children {
		d.nodes[c].Text = strings.ReplaceAll(d.nodes[c].Text, "\n", " ")
	}
}
