package preview

import (
	"strconv"
	"strings"

	"github.com/Paintersrp/desk/internal/document"
)

// DocumentHTML renders a structured document straight from its tree.
func DocumentHTML(d *document.Document) string {
	var b strings.Builder
	for _, c := range d.Node(d.Root()).Children {
		writeBlock(&b, d, c)
	}
	return b.String()
}

func writeBlock(b *strings.Builder, d *document.Document, id document.NodeID) {
	n := d.Node(id)
	switch n.Kind {
	case document.KindParagraph:
		b.WriteString("<p>")
		writeInline(b, d.Spans(id))
		b.WriteString("</p>\n")
	case document.KindHeading:
		if n.Level > maxHeadingLevel {
			b.WriteString("<p>" + strings.Repeat("#", n.Level) + " ")
			writeInline(b, d.Spans(id))
			b.WriteString("</p>\n")
			return
		}
		tag := "h" + strconv.Itoa(n.Level)
		b.WriteString("<" + tag + ">")
		writeInline(b, d.Spans(id))
		b.WriteString("</" + tag + ">\n")
	case document.KindCodeBlock:
		b.WriteString("<pre><code")
		if n.Language != "" {
			b.WriteString(` class="language-` + escape(n.Language) + `"`)
		}
		b.WriteString(">")
		text := d.BlockText(id)
		b.WriteString(escape(text))
		if text != "" && !strings.HasSuffix(text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("</code></pre>\n")
	case document.KindBlockquote:
		b.WriteString("<blockquote>\n")
		for _, c := range n.Children {
			writeBlock(b, d, c)
		}
		b.WriteString("</blockquote>\n")
	case document.KindBulletList, document.KindOrderedList:
		tag := "ul"
		if n.Kind == document.KindOrderedList {
			tag = "ol"
		}
		b.WriteString("<" + tag + ">\n")
		for _, item := range n.Children {
			b.WriteString("<li>")
			for _, c := range d.Node(item).Children {
				writeBlock(b, d, c)
			}
			b.WriteString("</li>\n")
		}
		b.WriteString("</" + tag + ">\n")
	}
}

func writeInline(b *strings.Builder, spans []document.Span) {
	for _, s := range spans {
		text := escape(s.Text)
		if s.Marks&document.MarkItalic != 0 {
			text = "<em>" + text + "</em>"
		}
		if s.Marks&document.MarkBold != 0 {
			text = "<strong>" + text + "</strong>"
		}
		b.WriteString(text)
	}
}
