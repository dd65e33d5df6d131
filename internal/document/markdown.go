package document

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Markdown serializes the document to CommonMark. Reading the output back with
// FromMarkdown yields an equal document, except that empty paragraphs outside
// list items are dropped.
func (d *Document) Markdown() string {
	return d.markdownBlocks(d.nodes[rootID].Children, false)
}

func (d *Document) markdownBlocks(ids []NodeID, inItem bool) string {
	var parts []string
	var prev Kind
	var alt bool
	for i, id := range ids {
		n := d.nodes[id]
		if n.Kind == KindParagraph && len(n.Children) == 0 && !inItem {
			continue
		}
		// Two adjacent lists of one kind only stay apart with a different marker.
		if n.Kind.List() && i > 0 && prev == n.Kind {
			alt = !alt
		} else {
			alt = false
		}
		text := d.blockMarkdown(id, alt)
		if len(parts) > 0 {
			sep := "\n\n"
			if inItem && n.Kind.List() {
				sep = "\n"
			}
			parts = append(parts, sep)
		}
		parts = append(parts, text)
		prev = n.Kind
	}
	return strings.Join(parts, "")
}

func (d *Document) blockMarkdown(id NodeID, alt bool) string {
	n := d.nodes[id]
	switch n.Kind {
	case KindParagraph:
		return d.inlineMarkdown(id, false)
	case KindHeading:
		text := d.inlineMarkdown(id, true)
		if text == "" {
			return strings.Repeat("#", n.Level)
		}
		return strings.Repeat("#", n.Level) + " " + text
	case KindCodeBlock:
		body := d.BlockText(id)
		fence := strings.Repeat("`", max(3, longestRun(body, '`')+1))
		if body == "" {
			return fence + n.Language + "\n" + fence
		}
		return fence + n.Language + "\n" + body + "\n" + fence
	case KindBlockquote:
		inner := d.markdownBlocks(n.Children, false)
		lines := strings.Split(inner, "\n")
		for i, line := range lines {
			if line == "" {
				lines[i] = ">"
			} else {
				lines[i] = "> " + line
			}
		}
		return strings.Join(lines, "\n")
	case KindBulletList, KindOrderedList:
		items := make([]string, len(n.Children))
		for i, item := range n.Children {
			marker := "-"
			if alt {
				marker = "*"
			}
			if n.Kind == KindOrderedList {
				delim := "."
				if alt {
					delim = ")"
				}
				marker = strconv.Itoa(i+1) + delim
			}
			items[i] = listItem(marker, d.markdownBlocks(d.nodes[item].Children, true))
		}
		return strings.Join(items, "\n")
	default:
		return ""
	}
}

func listItem(marker, body string) string {
	if body == "" {
		return marker
	}
	indent := strings.Repeat(" ", len(marker)+1)
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		switch {
		case i == 0:
			lines[i] = marker + " " + line
		case line != "":
			lines[i] = indent + line
		}
	}
	return strings.Join(lines, "\n")
}

func longestRun(s string, r byte) int {
	var best, cur int
	for i := 0; i < len(s); i++ {
		if s[i] == r {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}

// inlineMarkdown renders the spans of a text block. Bold runs are the outer
// delimiters and italic runs nest inside them.
func (d *Document) inlineMarkdown(id NodeID, heading bool) string {
	spans := d.Spans(id)
	var b strings.Builder
	for i := 0; i < len(spans); {
		bold := spans[i].Marks&MarkBold != 0
		j := i
		for j < len(spans) && (spans[j].Marks&MarkBold != 0) == bold {
			j++
		}
		if bold {
			b.WriteString(delimit("**", italicRuns(spans[i:j])))
		} else {
			b.WriteString(italicRuns(spans[i:j]))
		}
		i = j
	}

	text := b.String()
	if heading {
		text = strings.ReplaceAll(text, "\n", " ")
		text = strings.ReplaceAll(text, "#", `\#`)
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = escapeLine(line)
	}
	return strings.Join(lines, "\n")
}

func italicRuns(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		text := escapeInline(s.Text)
		if s.Marks&MarkItalic != 0 {
			text = delimit("*", text)
		}
		b.WriteString(text)
	}
	return b.String()
}

// delimit wraps text in delim, keeping surrounding whitespace outside so the
// delimiters stay flanking.
func delimit(delim, text string) string {
	core := strings.TrimSpace(text)
	if core == "" {
		return text
	}
	start := strings.Index(text, core)
	return text[:start] + delim + core + delim + text[start+len(core):]
}

func escapeInline(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '*', '_', '`', '[', ']', '<':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '&':
			b.WriteString("&amp;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// escapeLine protects a rendered line from being read as block syntax and keeps
// its outer whitespace, which CommonMark would otherwise strip.
func escapeLine(line string) string {
	if line == "" {
		return line
	}
	core := strings.TrimLeft(line, " \t")
	lead := line[:len(line)-len(core)]
	trimmed := strings.TrimRight(core, " \t")
	trail := core[len(trimmed):]

	if lead == "" && trimmed != "" {
		trimmed = escapeLineStart(trimmed)
	}
	return whitespaceEntities(lead) + trimmed + whitespaceEntities(trail)
}

func escapeLineStart(line string) string {
	r, _ := utf8.DecodeRuneInString(line)
	switch r {
	case '#', '>', '-', '+', '=':
		return `\` + line
	}

	digits := 0
	for digits < len(line) && line[digits] >= '0' && line[digits] <= '9' {
		digits++
	}
	if digits > 0 && digits < len(line) && (line[digits] == '.' || line[digits] == ')') {
		return line[:digits] + `\` + line[digits:]
	}
	return line
}

func whitespaceEntities(ws string) string {
	var b strings.Builder
	for _, r := range ws {
		if r == '\t' {
			b.WriteString("&#9;")
		} else {
			b.WriteString("&#32;")
		}
	}
	return b.String()
}
