package preview

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// maxHeadingLevel is the deepest heading rendered as a heading.
const maxHeadingLevel = 5

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&linkTargetTransformer{}, 100),
				util.Prioritized(&headingDepthTransformer{}, 110),
			),
		),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(
				util.Prioritized(&escapedHTMLRenderer{}, 100),
			),
		),
	)
}

// linkTargetTransformer makes every link open in a new tab.
type linkTargetTransformer struct{}

func (t *linkTargetTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.Link, *ast.AutoLink:
			n.SetAttributeString("target", []byte("_blank"))
			n.SetAttributeString("rel", []byte("noopener noreferrer"))
		}
		return ast.WalkContinue, nil
	})
}

// headingDepthTransformer turns headings deeper than maxHeadingLevel back into
// paragraphs that show their markers literally.
type headingDepthTransformer struct{}

func (t *headingDepthTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	var deep []*ast.Heading
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level > maxHeadingLevel {
			deep = append(deep, h)
		}
		return ast.WalkContinue, nil
	})

	for _, h := range deep {
		para := ast.NewParagraph()
		para.AppendChild(para, ast.NewString([]byte(strings.Repeat("#", h.Level)+" ")))
		for c := h.FirstChild(); c != nil; {
			next := c.NextSibling()
			para.AppendChild(para, c)
			c = next
		}
		if parent := h.Parent(); parent != nil {
			parent.ReplaceChild(parent, h, para)
		}
	}
}

// escapedHTMLRenderer shows raw HTML as text instead of passing it through.
type escapedHTMLRenderer struct{}

func (r *escapedHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(ast.KindRawHTML, r.renderRawHTML)
	reg.Register(ast.KindHTMLBlock, r.renderHTMLBlock)
}

func (r *escapedHTMLRenderer) renderRawHTML(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkSkipChildren, nil
	}
	n := node.(*ast.RawHTML)
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
	return ast.WalkSkipChildren, nil
}

func (r *escapedHTMLRenderer) renderHTMLBlock(
	w util.BufWriter, source []byte, node ast.Node, entering bool,
) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.HTMLBlock)
	_, _ = w.WriteString("<p>")
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.Write(util.EscapeHTML(seg.Value(source)))
	}
	if n.HasClosure() {
		_, _ = w.Write(util.EscapeHTML(n.ClosureLine.Value(source)))
	}
	_, _ = w.WriteString("</p>\n")
	return ast.WalkContinue, nil
}

// literalHTML backslash-escapes raw HTML and headings deeper than
// maxHeadingLevel so renderers that drop HTML show them as text instead.
func literalHTML(src string) string {
	source := []byte(src)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var at []int
	escapeTags := func(seg text.Segment) {
		for i := seg.Start; i < seg.Stop; i++ {
			if source[i] == '<' {
				at = append(at, i)
			}
		}
	}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.RawHTML:
			for i := 0; i < n.Segments.Len(); i++ {
				escapeTags(n.Segments.At(i))
			}
		case *ast.HTMLBlock:
			for i := 0; i < n.Lines().Len(); i++ {
				escapeTags(n.Lines().At(i))
			}
			if n.HasClosure() {
				escapeTags(n.ClosureLine)
			}
		case *ast.Heading:
			if n.Level > maxHeadingLevel && n.Lines().Len() > 0 {
				if i := markerStart(source, n.Lines().At(0).Start); i >= 0 {
					at = append(at, i)
				}
			}
		}
		return ast.WalkContinue, nil
	})

	if len(at) == 0 {
		return src
	}
	sort.Ints(at)

	var b strings.Builder
	prev := 0
	for i, pos := range at {
		if i > 0 && pos == at[i-1] {
			continue
		}
		b.Write(source[prev:pos])
		b.WriteByte('\\')
		prev = pos
	}
	b.Write(source[prev:])
	return b.String()
}

// markerStart finds the first '#' of the ATX marker before a heading's text.
func markerStart(source []byte, content int) int {
	i := content
	for i > 0 && (source[i-1] == ' ' || source[i-1] == '\t') {
		i--
	}
	end := i
	for i > 0 && source[i-1] == '#' {
		i--
	}
	if i == end {
		return -1
	}
	return i
}
