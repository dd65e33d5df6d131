package document

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// FromMarkdown parses CommonMark into a document. Syntax the model has no node
// for is kept as plain text: links keep their destination in parentheses,
// images their alt text, thematic breaks and raw HTML their source.
func FromMarkdown(src string) *Document {
	if strings.TrimSpace(src) == "" {
		return New()
	}
	source := []byte(src)
	root := goldmark.DefaultParser().Parse(text.NewReader(source))

	p := &mdParser{source: source}
	return Build(p.blocks(root)...)
}

type mdParser struct {
	source []byte
}

func (p *mdParser) blocks(parent ast.Node) []Block {
	var out []Block
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		if b, ok := p.block(c); ok {
			out = append(out, b)
		}
	}
	return out
}

func (p *mdParser) block(n ast.Node) (Block, bool) {
	switch n := n.(type) {
	case *ast.Heading:
		return Heading(n.Level, p.inline(n)...), true
	case *ast.Paragraph, *ast.TextBlock:
		return Paragraph(p.inline(n)...), true
	case *ast.ThematicBreak:
		return Paragraph(Plain("---")), true
	case *ast.FencedCodeBlock:
		return CodeBlock(string(n.Language(p.source)), p.lines(n)), true
	case *ast.CodeBlock:
		return CodeBlock("", p.lines(n)), true
	case *ast.HTMLBlock:
		raw := p.lines(n)
		if n.HasClosure() {
			closure := n.ClosureLine
			raw += "\n" + strings.TrimSuffix(string(closure.Value(p.source)), "\n")
		}
		return Paragraph(Plain(raw)), true
	case *ast.Blockquote:
		return Blockquote(p.blocks(n)...), true
	case *ast.List:
		var items []Block
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			children := p.blocks(c)
			if len(children) == 0 {
				children = []Block{Paragraph()}
			}
			items = append(items, Item(children...))
		}
		if n.IsOrdered() {
			return OrderedList(items...), true
		}
		return BulletList(items...), true
	default:
		return Block{}, false
	}
}

// lines joins the raw lines of a leaf block without the final newline.
func (p *mdParser) lines(n ast.Node) string {
	var b bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(p.source))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (p *mdParser) inline(parent ast.Node) []Span {
	var spans []Span
	p.walkInline(parent, 0, &spans)
	return spans
}

func (p *mdParser) walkInline(parent ast.Node, marks Mark, spans *[]Span) {
	emit := func(s string) {
		if s != "" {
			*spans = append(*spans, Span{Text: s, Marks: marks})
		}
	}

	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Text:
			emit(unescape(n.Segment.Value(p.source)))
			if n.SoftLineBreak() || n.HardLineBreak() {
				*spans = append(*spans, Span{Text: "\n", Marks: marks})
			}
		case *ast.String:
			emit(string(n.Value))
		case *ast.Emphasis:
			m := MarkItalic
			if n.Level >= 2 {
				m = MarkBold
			}
			p.walkInline(n, marks|m, spans)
		case *ast.CodeSpan:
			var b bytes.Buffer
			for t := n.FirstChild(); t != nil; t = t.NextSibling() {
				if seg, ok := t.(*ast.Text); ok {
					b.Write(seg.Segment.Value(p.source))
				}
			}
			emit(b.String())
		case *ast.Link:
			p.walkInline(n, marks, spans)
			emit(linkTarget(n.Destination, n.Title))
		case *ast.Image:
			p.walkInline(n, marks, spans)
			emit(linkTarget(n.Destination, n.Title))
		case *ast.AutoLink:
			emit(string(n.URL(p.source)))
		case *ast.RawHTML:
			var b bytes.Buffer
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				b.Write(seg.Value(p.source))
			}
			emit(b.String())
		default:
			p.walkInline(n, marks, spans)
		}
	}
}

// linkTarget keeps a link or image destination as visible text, since the
// document has no link nodes.
func linkTarget(dest, title []byte) string {
	if len(dest) == 0 {
		return ""
	}
	if len(title) > 0 {
		return " (" + string(dest) + " \"" + string(title) + "\")"
	}
	return " (" + string(dest) + ")"
}

func unescape(v []byte) string {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	v = util.ResolveEntityNames(v)
	return string(v)
}
