package quicknote

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Paintersrp/desk/internal/document"
)

type runStyle int

const (
	runPlain runStyle = iota
	runBold
	runItalic
	runBoldItalic
	runCode
	runSelected
	runCursor
)

var runStyles = map[runStyle]lipgloss.Style{
	runBold:       boldStyle,
	runItalic:     italicStyle,
	runBoldItalic: boldItalicStyle,
	runCode:       codeStyle,
	runSelected:   selectionStyle,
	runCursor:     cursorStyle,
}

// surface draws a document as editable terminal text. Block structure is shown
// with dim markdown-like markers; the selection is drawn only when focused.
type surface struct {
	doc     *document.Document
	sel     document.Selection
	focused bool
	ordinal int
	lines   []string
}

func renderSurface(doc *document.Document, sel document.Selection, focused bool) string {
	s := &surface{doc: doc, sel: sel, focused: focused}
	for _, c := range doc.Node(doc.Root()).Children {
		s.block(c, "", "")
	}
	return strings.Join(s.lines, "\n")
}

// block renders id. first prefixes its first line, rest every following line.
func (s *surface) block(id document.NodeID, first, rest string) {
	n := s.doc.Node(id)
	switch n.Kind {
	case document.KindParagraph:
		s.text(id, first, rest, "", runPlain)
	case document.KindHeading:
		s.text(id, first, rest, markerStyle.Render(strings.Repeat("#", n.Level)+" "), runBold)
	case document.KindCodeBlock:
		s.lines = append(s.lines, first+markerStyle.Render("```"+n.Language))
		s.text(id, rest, rest, "", runCode)
		s.lines = append(s.lines, rest+markerStyle.Render("```"))
	case document.KindBlockquote:
		quote := markerStyle.Render("│ ")
		for i, c := range n.Children {
			if i == 0 {
				s.block(c, first+quote, rest+quote)
			} else {
				s.block(c, rest+quote, rest+quote)
			}
		}
	case document.KindBulletList, document.KindOrderedList:
		for i, item := range n.Children {
			marker := "• "
			if n.Kind == document.KindOrderedList {
				marker = fmt.Sprintf("%d. ", i+1)
			}
			indent := strings.Repeat(" ", lipgloss.Width(marker))
			lead := first
			if i > 0 {
				lead = rest
			}
			for j, c := range s.doc.Node(item).Children {
				if j == 0 {
					s.block(c, lead+markerStyle.Render(marker), rest+indent)
				} else {
					s.block(c, rest+indent, rest+indent)
				}
			}
		}
	}
}

func (s *surface) text(id document.NodeID, first, rest, marker string, base runStyle) {
	ordinal := s.ordinal
	s.ordinal++
	current := s.focused && ordinal == s.sel.Block

	var out strings.Builder
	var run strings.Builder
	style := runPlain
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if st, ok := runStyles[style]; ok {
			// Styles are applied per line so prefixes stay unstyled.
			parts := strings.Split(run.String(), "\n")
			for i, p := range parts {
				if i > 0 {
					out.WriteByte('\n')
				}
				if p != "" {
					out.WriteString(st.Render(p))
				}
			}
		} else {
			out.WriteString(run.String())
		}
		run.Reset()
	}
	emit := func(r rune, st runStyle) {
		if st != style {
			flush()
			style = st
		}
		run.WriteRune(r)
	}

	offset := 0
	for _, span := range s.doc.Spans(id) {
		for _, r := range span.Text {
			st := markStyle(base, span.Marks)
			switch {
			case current && s.sel.Empty() && offset == s.sel.Head:
				if r == '\n' {
					emit(' ', runCursor)
					emit('\n', runPlain)
				} else {
					emit(r, runCursor)
				}
			case current && offset >= s.sel.From() && offset < s.sel.To() && r != '\n':
				emit(r, runSelected)
			default:
				emit(r, st)
			}
			offset++
		}
	}
	if current && s.sel.Empty() && offset == s.sel.Head {
		emit(' ', runCursor)
	}
	flush()

	for i, line := range strings.Split(out.String(), "\n") {
		prefix := rest
		if i == 0 {
			prefix = first + marker
		}
		s.lines = append(s.lines, prefix+line)
	}
}

func markStyle(base runStyle, marks document.Mark) runStyle {
	if base == runCode {
		return runCode
	}
	bold := marks&document.MarkBold != 0 || base == runBold
	italic := marks&document.MarkItalic != 0
	switch {
	case bold && italic:
		return runBoldItalic
	case bold:
		return runBold
	case italic:
		return runItalic
	}
	return runPlain
}
