package document

// normalize returns the canonical form of d: nodes renumbered in preorder,
// unreachable nodes dropped, containers without text blocks removed, list
// children wrapped in items, adjacent leaves with equal marks merged and code
// block text stripped of marks. The root always holds at least one block.
func (d *Document) normalize() *Document {
	out := &Document{nodes: make([]Node, 1, len(d.nodes))}
	out.nodes[0] = Node{Kind: KindDoc}

	var children []NodeID
	for _, c := range d.nodes[rootID].Children {
		if id, ok := out.copyBlock(d, c); ok {
			children = append(children, id)
		}
	}
	if len(children) == 0 {
		children = append(children, out.add(Node{Kind: KindParagraph}))
	}
	out.nodes[rootID].Children = children

	return out
}

func (d *Document) hasTextBlock(id NodeID) bool {
	n := d.nodes[id]
	if n.Kind.TextBlock() {
		return true
	}
	if n.Kind == KindText || n.Kind == KindDoc {
		return false
	}
	for _, c := range n.Children {
		if d.hasTextBlock(c) {
			return true
		}
	}
	return false
}

func (out *Document) copyBlock(src *Document, id NodeID) (NodeID, bool) {
	if !src.hasTextBlock(id) {
		return 0, false
	}

	n := src.nodes[id]
	switch {
	case n.Kind.TextBlock():
		return out.copyTextBlock(src, id), true
	case n.Kind.List():
		self := out.add(Node{Kind: n.Kind})
		var children []NodeID
		for _, c := range n.Children {
			if src.nodes[c].Kind != KindListItem {
				if !src.hasTextBlock(c) {
					continue
				}
				item := out.add(Node{Kind: KindListItem})
				inner, _ := out.copyBlock(src, c)
				out.nodes[item].Children = []NodeID{inner}
				children = append(children, item)
				continue
			}
			if cid, ok := out.copyBlock(src, c); ok {
				children = append(children, cid)
			}
		}
		out.nodes[self].Children = children
		return self, true
	case n.Kind == KindListItem || n.Kind == KindBlockquote:
		self := out.add(Node{Kind: n.Kind})
		var children []NodeID
		for _, c := range n.Children {
			if cid, ok := out.copyBlock(src, c); ok {
				children = append(children, cid)
			}
		}
		out.nodes[self].Children = children
		return self, true
	default:
		return 0, false
	}
}

func (out *Document) copyTextBlock(src *Document, id NodeID) NodeID {
	n := src.nodes[id]
	block := Node{Kind: n.Kind}
	switch n.Kind {
	case KindHeading:
		block.Level = clampLevel(n.Level)
	case KindCodeBlock:
		block.Language = n.Language
	}
	self := out.add(block)

	cs := src.cells(id)
	if n.Kind == KindCodeBlock {
		for i := range cs {
			cs[i].m = 0
		}
	}
	out.setCells(self, cs)
	return self
}

func clampLevel(level int) int {
	switch {
	case level < 1:
		return 1
	case level > 6:
		return 6
	default:
		return level
	}
}
