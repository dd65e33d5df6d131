package preview

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"

	"github.com/Paintersrp/desk/internal/document"
	"github.com/Paintersrp/desk/internal/format"
)

func describe(t *testing.T, id string) format.Descriptor {
	t.Helper()
	d, err := format.Builtin().Describe(id)
	if err != nil {
		t.Fatalf("Describe(%q) error = %v", id, err)
	}
	return d
}

func TestRenderWithoutPreview(t *testing.T) {
	r := NewRenderer()
	for _, id := range []string{"python", "javascript", "json", "plaintext"} {
		if _, ok := r.Render(Source{Format: describe(t, id), Text: "# not markdown"}); ok {
			t.Errorf("Render(%s) reported a preview", id)
		}
	}
}

func TestRenderStructured(t *testing.T) {
	doc := document.Build(
		document.Heading(1, document.Plain("Hi")),
		document.Paragraph(document.Plain("a "), document.Bold("b"), document.Plain(" <c>")),
		document.BulletList(document.Item(document.Paragraph(document.Italic("i")))),
		document.CodeBlock("go", "x := 1"),
	)
	res, ok := NewRenderer().Render(Source{Format: describe(t, "markdown"), Document: doc})
	if !ok {
		t.Fatalf("markdown should have a preview")
	}
	if res.Format != "markdown" {
		t.Errorf("Result.Format = %q, want markdown", res.Format)
	}
	for _, want := range []string{
		"<h1>Hi</h1>",
		"<strong>b</strong>",
		"&lt;c&gt;",
		"<ul>",
		"<em>i</em>",
		`<code class="language-go">x := 1`,
	} {
		if !strings.Contains(res.HTML, want) {
			t.Errorf("HTML missing %q:\n%s", want, res.HTML)
		}
	}
}

func TestRenderMarkup(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    []string
		notWant []string
	}{
		{
			name: "emphasis and lists",
			src:  "# Title\n\n**bold** and *it*\n\n- a\n- b\n\n1. one",
			want: []string{"<h1>Title</h1>", "<strong>bold</strong>", "<em>it</em>", "<li>a</li>", "<ol>"},
		},
		{
			name:    "script block is escaped",
			src:     "<script>alert(1)</script>\n\nhello",
			want:    []string{"&lt;script&gt;", "<p>hello</p>"},
			notWant: []string{"<script"},
		},
		{
			name:    "inline html is escaped",
			src:     "a <b onclick=\"x()\">b</b>",
			want:    []string{"&lt;b onclick="},
			notWant: []string{"<b "},
		},
		{
			name: "links open in a new tab",
			src:  "[docs](https://example.com)",
			want: []string{`href="https://example.com"`, `target="_blank"`, `rel="noopener noreferrer"`},
		},
		{
			name:    "script links are dropped",
			src:     "[x](javascript:alert(1))",
			notWant: []string{"javascript:"},
		},
		{
			name:    "deep headings stay literal",
			src:     "###### deep",
			want:    []string{"###### deep"},
			notWant: []string{"<h6"},
		},
		{
			name: "fenced code",
			src:  "```js\nlet a = '<x>';\n```",
			want: []string{"<pre><code", "&lt;x&gt;"},
		},
		{
			name: "quote and rule",
			src:  "> quoted\n\n---",
			want: []string{"<blockquote>", "<hr"},
		},
		{
			name: "image",
			src:  "![logo](https://example.com/logo.png)",
			want: []string{`<img src="https://example.com/logo.png"`, `alt="logo"`},
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, ok := r.Render(Source{Format: describe(t, "markdown-source"), Text: tt.src})
			if !ok {
				t.Fatalf("markdown-source should have a preview")
			}
			for _, w := range tt.want {
				if !strings.Contains(res.HTML, w) {
					t.Errorf("HTML missing %q:\n%s", w, res.HTML)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(res.HTML, nw) {
					t.Errorf("HTML unexpectedly contains %q:\n%s", nw, res.HTML)
				}
			}
		})
	}
}

func TestRenderIsPure(t *testing.T) {
	src := Source{Format: describe(t, "markdown-source"), Text: "# a\n\n[b](https://b.example) *c*"}
	first, _ := NewRenderer().Render(src)

	r := NewRenderer()
	for i := 0; i < 3; i++ {
		got, _ := r.Render(src)
		if got != first {
			t.Fatalf("render %d differs:\n%s\nvs\n%s", i, got.HTML, first.HTML)
		}
	}
}

func TestHighlight(t *testing.T) {
	if got := Highlight("no-such-lexer", "dracula", "x = 1"); got != "x = 1" {
		t.Errorf("unknown lexer should return the text, got %q", got)
	}
	got := Highlight("python", "dracula", "print(1)")
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "print") {
		t.Errorf("expected ANSI colored python, got %q", got)
	}
}

func TestTerminalRender(t *testing.T) {
	term, err := NewTerminal(DefaultTerminalOptions())
	if err != nil {
		t.Fatalf("NewTerminal() error = %v", err)
	}

	if got := term.Render(Source{Format: describe(t, "plaintext"), Text: "just text"}); got != "just text" {
		t.Errorf("plain text render = %q", got)
	}
	doc := document.Build(document.Paragraph(document.Plain("hello world")))
	if got := term.Render(Source{Format: describe(t, "markdown"), Document: doc}); !strings.Contains(got, "hello") {
		t.Errorf("markdown render lost its text: %q", got)
	}
}

func TestLiteralHTML(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"plain", "just *text*", "just *text*"},
		{"block and inline", "<div>boxed</div>\n\nbefore <b>inline</b> after", "\\<div>boxed\\</div>\n\nbefore \\<b>inline\\</b> after"},
		{"code span untouched", "use `<b>` here", "use `<b>` here"},
		{"deep heading", "###### six\n\n##### five", "\\###### six\n\n##### five"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := literalHTML(tt.src); got != tt.want {
				t.Errorf("literalHTML(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestTerminalShowsRawHTML(t *testing.T) {
	term, err := NewTerminal(TerminalOptions{Style: "notty", WordWrap: 80, Profile: termenv.Ascii})
	if err != nil {
		t.Fatalf("NewTerminal() error = %v", err)
	}

	got := term.Render(Source{
		Format: describe(t, "markdown-source"),
		Text:   "<div>boxed</div>\n\nbefore <b>inline</b> after",
	})
	for _, want := range []string{"<div>boxed</div>", "<b>inline</b>"} {
		if !strings.Contains(got, want) {
			t.Errorf("terminal render %q lost %q", got, want)
		}
	}
}
