// Package document implements the structured note model: an arena of block and
// inline nodes, the editing commands that mutate it and a linear undo history.
package document

import (
	"reflect"
	"strings"
)

// NodeID addresses a node inside a Document's arena.
type NodeID int

// Kind is the type of a node.
type Kind uint8

const (
	KindDoc Kind = iota
	KindParagraph
	KindHeading
	KindBulletList
	KindOrderedList
	KindListItem
	KindBlockquote
	KindCodeBlock
	KindText
)

var kindNames = map[Kind]string{
	KindDoc:         "doc",
	KindParagraph:   "paragraph",
	KindHeading:     "heading",
	KindBulletList:  "bulletList",
	KindOrderedList: "orderedList",
	KindListItem:    "listItem",
	KindBlockquote:  "blockquote",
	KindCodeBlock:   "codeBlock",
	KindText:        "text",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// TextBlock reports whether nodes of this kind hold inline text directly.
func (k Kind) TextBlock() bool {
	return k == KindParagraph || k == KindHeading || k == KindCodeBlock
}

// List reports whether the kind is one of the list containers.
func (k Kind) List() bool {
	return k == KindBulletList || k == KindOrderedList
}

// Mark is a set of inline formatting flags.
type Mark uint8

const (
	MarkBold Mark = 1 << iota
	MarkItalic
)

// Node is a single arena entry. Text nodes are leaves; everything else refers to
// its children by id.
type Node struct {
	Kind     Kind
	Level    int
	Language string
	Text     string
	Marks    Mark
	Children []NodeID
}

// Span is a run of text sharing the same marks.
type Span struct {
	Text  string
	Marks Mark
}

// Document is a tree stored as a flat arena. Node 0 is always the root. A
// Document handed out by an Editor is never mutated afterwards.
type Document struct {
	nodes []Node
}

const rootID NodeID = 0

// New returns an empty document holding a single empty paragraph.
func New() *Document {
	return Build()
}

// Root returns the id of the doc node.
func (d *Document) Root() NodeID {
	return rootID
}

// Node returns the node stored under id. The Children slice must not be modified.
func (d *Document) Node(id NodeID) Node {
	return d.nodes[id]
}

// Len returns the number of nodes in the arena.
func (d *Document) Len() int {
	return len(d.nodes)
}

// Equal reports whether both documents have the same canonical arena.
func (d *Document) Equal(other *Document) bool {
	if d == nil || other == nil {
		return d == other
	}
	return reflect.DeepEqual(d.nodes, other.nodes)
}

// Spans returns the inline runs of a text block.
func (d *Document) Spans(id NodeID) []Span {
	n := d.nodes[id]
	spans := make([]Span, 0, len(n.Children))
	for _, c := range n.Children {
		leaf := d.nodes[c]
		spans = append(spans, Span{Text: leaf.Text, Marks: leaf.Marks})
	}
	return spans
}

// BlockText returns the concatenated text of a text block.
func (d *Document) BlockText(id NodeID) string {
	var b strings.Builder
	for _, c := range d.nodes[id].Children {
		b.WriteString(d.nodes[c].Text)
	}
	return b.String()
}

// TextBlocks returns the text block ids in document order.
func (d *Document) TextBlocks() []NodeID {
	var out []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		n := d.nodes[id]
		if n.Kind.TextBlock() {
			out = append(out, id)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(rootID)
	return out
}

// PlainText extracts the text of every text block, one block per line.
func (d *Document) PlainText() string {
	blocks := d.TextBlocks()
	lines := make([]string, len(blocks))
	for i, id := range blocks {
		lines[i] = d.BlockText(id)
	}
	return strings.Join(lines, "\n")
}

func (d *Document) clone() *Document {
	nodes := make([]Node, len(d.nodes))
	for i, n := range d.nodes {
		if n.Children != nil {
			n.Children = append([]NodeID(nil), n.Children...)
		}
		nodes[i] = n
	}
	return &Document{nodes: nodes}
}

func (d *Document) add(n Node) NodeID {
	d.nodes = append(d.nodes, n)
	return NodeID(len(d.nodes) - 1)
}

// parents maps every reachable node to its parent; the root maps to -1.
func (d *Document) parents() []NodeID {
	out := make([]NodeID, len(d.nodes))
	for i := range out {
		out[i] = -1
	}
	var walk func(id NodeID)
	walk = func(id NodeID) {
		for _, c := range d.nodes[id].Children {
			out[c] = id
			walk(c)
		}
	}
	walk(rootID)
	return out
}

func (d *Document) indexOf(parent, child NodeID) int {
	for i, c := range d.nodes[parent].Children {
		if c == child {
			return i
		}
	}
	return -1
}

// replaceChild swaps the child at idx for the given replacement ids.
func (d *Document) replaceChild(parent NodeID, idx int, with ...NodeID) {
	old := d.nodes[parent].Children
	children := make([]NodeID, 0, len(old)-1+len(with))
	children = append(children, old[:idx]...)
	children = append(children, with...)
	children = append(children, old[idx+1:]...)
	d.nodes[parent].Children = children
}

func (d *Document) insertAfter(parent, sibling, id NodeID) {
	idx := d.indexOf(parent, sibling)
	d.replaceChild(parent, idx, sibling, id)
}

func (d *Document) remove(parent, child NodeID) {
	if idx := d.indexOf(parent, child); idx >= 0 {
		d.replaceChild(parent, idx)
	}
}

type cell struct {
	r rune
	m Mark
}

func (d *Document) cells(id NodeID) []cell {
	var out []cell
	for _, c := range d.nodes[id].Children {
		leaf := d.nodes[c]
		for _, r := range leaf.Text {
			out = append(out, cell{r: r, m: leaf.Marks})
		}
	}
	return out
}

// setCells rebuilds the leaves of a text block. Old leaves stay orphaned in the
// arena until the next normalize.
func (d *Document) setCells(id NodeID, cs []cell) {
	var children []NodeID
	var b strings.Builder
	flush := func(m Mark) {
		if b.Len() == 0 {
			return
		}
		children = append(children, d.add(Node{Kind: KindText, Text: b.String(), Marks: m}))
		b.Reset()
	}

	var current Mark
	for i, c := range cs {
		if i > 0 && c.m != current {
			flush(current)
		}
		current = c.m
		b.WriteRune(c.r)
	}
	flush(current)
	d.nodes[id].Children = children
}
