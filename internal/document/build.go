package document

// Block describes a subtree used to assemble documents.
type Block struct {
	Kind     Kind
	Level    int
	Language string
	Spans    []Span
	Children []Block
}

func Plain(text string) Span  { return Span{Text: text} }
func Bold(text string) Span   { return Span{Text: text, Marks: MarkBold} }
func Italic(text string) Span { return Span{Text: text, Marks: MarkItalic} }

func Paragraph(spans ...Span) Block {
	return Block{Kind: KindParagraph, Spans: spans}
}

func Heading(level int, spans ...Span) Block {
	return Block{Kind: KindHeading, Level: level, Spans: spans}
}

func CodeBlock(language, text string) Block {
	return Block{Kind: KindCodeBlock, Language: language, Spans: []Span{{Text: text}}}
}

func Blockquote(children ...Block) Block {
	return Block{Kind: KindBlockquote, Children: children}
}

func BulletList(items ...Block) Block {
	return Block{Kind: KindBulletList, Children: items}
}

func OrderedList(items ...Block) Block {
	return Block{Kind: KindOrderedList, Children: items}
}

func Item(children ...Block) Block {
	return Block{Kind: KindListItem, Children: children}
}

// Build assembles a canonical document from block descriptions.
func Build(blocks ...Block) *Document {
	d := &Document{nodes: []Node{{Kind: KindDoc}}}
	var children []NodeID
	for _, b := range blocks {
		children = append(children, d.addBlock(b))
	}
	d.nodes[rootID].Children = children
	return d.normalize()
}

func (d *Document) addBlock(b Block) NodeID {
	id := d.add(Node{Kind: b.Kind, Level: b.Level, Language: b.Language})
	if b.Kind.TextBlock() {
		var cs []cell
		for _, s := range b.Spans {
			for _, r := range s.Text {
				cs = append(cs, cell{r: r, m: s.Marks})
			}
		}
		d.setCells(id, cs)
		return id
	}

	var children []NodeID
	for _, c := range b.Children {
		children = append(children, d.addBlock(c))
	}
	d.nodes[id].Children = children
	return id
}

// FromLines builds one paragraph per line of text.
func FromLines(text string) *Document {
	if text == "" {
		return New()
	}
	var blocks []Block
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == '\n' {
			blocks = append(blocks, Paragraph(Plain(text[start:i])))
			start = i + 1
		}
	}
	return Build(blocks...)
}

// FromCode wraps source text in a single code block.
func FromCode(language, text string) *Document {
	if text == "" {
		return New()
	}
	return Build(CodeBlock(language, text))
}
