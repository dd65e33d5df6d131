package document

import "testing"

func TestToggleTwiceRestoresDocument(t *testing.T) {
	docs := map[string]*Document{
		"paragraph": Build(Paragraph(Plain("hello"))),
		"quoted":    Build(Blockquote(Paragraph(Plain("hello")))),
		"listed":    Build(BulletList(Item(Paragraph(Plain("hello"))))),
		"middle item": Build(
			Paragraph(Plain("intro")),
			OrderedList(
				Item(Paragraph(Plain("first"))),
				Item(Paragraph(Plain("hello"))),
				Item(Paragraph(Plain("last"))),
			),
		),
	}
	// Toggling the other list kind converts the list instead of wrapping it.
	converts := map[string]Command{
		"listed":      CmdOrderedList,
		"middle item": CmdBulletList,
	}
	commands := []Command{
		CmdBold, CmdItalic,
		CmdHeading1, CmdHeading2, CmdHeading3,
		CmdBulletList, CmdOrderedList, CmdBlockquote, CmdCodeBlock,
	}

	for name, doc := range docs {
		for _, cmd := range commands {
			if converts[name] == cmd {
				continue
			}
			t.Run(name+"/"+cmd.String(), func(t *testing.T) {
				block := 0
				if name == "middle item" {
					block = 2
				}
				e := NewEditorFrom(doc, 0)
				e.Select(Selection{Block: block, Anchor: 0, Head: 5})

				if !e.Apply(cmd) {
					t.Fatalf("first Apply(%v) = false", cmd)
				}
				if e.Document().Equal(doc) {
					t.Fatalf("first Apply(%v) left the document unchanged", cmd)
				}
				if !e.Apply(cmd) {
					t.Fatalf("second Apply(%v) = false", cmd)
				}
				if !e.Document().Equal(doc) {
					t.Errorf("toggling %v twice: got %q, want %q", cmd, e.Document().Markdown(), doc.Markdown())
				}
			})
		}
	}
}

func TestApplyInapplicableIsNoop(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		sel  Selection
		cmd  Command
	}{
		{"bold without selection", Build(Paragraph(Plain("abc"))), Cursor(0, 1), CmdBold},
		{"italic in code", Build(CodeBlock("go", "x := 1")), Selection{Anchor: 0, Head: 3}, CmdItalic},
		{"undo with empty history", Build(Paragraph(Plain("abc"))), Cursor(0, 0), CmdUndo},
		{"redo with empty history", Build(Paragraph(Plain("abc"))), Cursor(0, 0), CmdRedo},
		{"unknown command", Build(Paragraph(Plain("abc"))), Cursor(0, 0), Command(99)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditorFrom(tt.doc, 0)
			e.Select(tt.sel)
			v := e.Version()

			if e.Can(tt.cmd) {
				t.Errorf("Can(%v) = true", tt.cmd)
			}
			if e.Apply(tt.cmd) {
				t.Errorf("Apply(%v) = true", tt.cmd)
			}
			if e.Version() != v || !e.Document().Equal(tt.doc) {
				t.Errorf("Apply(%v) changed the document", tt.cmd)
			}
		})
	}
}

func TestIsActive(t *testing.T) {
	e := NewEditorFrom(Build(
		Heading(2, Plain("title")),
		BulletList(Item(Paragraph(Bold("bold"), Plain(" plain")))),
		Blockquote(Paragraph(Italic("quoted"))),
	), 0)

	check := func(cmd Command, want bool) {
		t.Helper()
		if got := e.IsActive(cmd); got != want {
			t.Errorf("IsActive(%v) at %+v = %v, want %v", cmd, e.Selection(), got, want)
		}
	}

	e.Select(Cursor(0, 1))
	check(CmdHeading2, true)
	check(CmdHeading1, false)
	check(CmdBulletList, false)

	e.Select(Selection{Block: 1, Anchor: 0, Head: 4})
	check(CmdBold, true)
	check(CmdBulletList, true)
	check(CmdOrderedList, false)

	e.Select(Selection{Block: 1, Anchor: 0, Head: 6})
	check(CmdBold, false)

	e.Select(Cursor(2, 3))
	check(CmdBlockquote, true)
	check(CmdItalic, true)
}

func TestSwitchListKind(t *testing.T) {
	e := NewEditorFrom(Build(BulletList(Item(Paragraph(Plain("a"))), Item(Paragraph(Plain("b"))))), 0)
	e.Select(Cursor(1, 0))
	e.Apply(CmdOrderedList)

	want := Build(OrderedList(Item(Paragraph(Plain("a"))), Item(Paragraph(Plain("b")))))
	if !e.Document().Equal(want) {
		t.Errorf("got %q, want %q", e.Document().Markdown(), want.Markdown())
	}
}

func TestHeadingLevelSwitch(t *testing.T) {
	e := NewEditorFrom(Build(Paragraph(Plain("t"))), 0)
	e.Apply(CmdHeading1)
	e.Apply(CmdHeading3)
	if got, want := e.Document().Markdown(), "### t"; got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}
}

func TestHeadingJoinsLines(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{"code block", Build(CodeBlock("", "a\nb"))},
		{"soft break", Build(Paragraph(Plain("a\nb")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEditorFrom(tt.doc, 0)
			if !e.Apply(CmdHeading1) {
				t.Fatalf("Apply(h1) = false")
			}
			md := e.Document().Markdown()
			if md != "# a b" {
				t.Errorf("Markdown() = %q, want %q", md, "# a b")
			}
			if !FromMarkdown(md).Equal(e.Document()) {
				t.Errorf("heading does not survive a markdown round trip: %q", md)
			}
		})
	}
}

func TestMarkToggleOnMixedRange(t *testing.T) {
	e := NewEditorFrom(Build(Paragraph(Bold("ab"), Plain("cd"))), 0)
	e.Select(Selection{Anchor: 0, Head: 4})

	e.Apply(CmdBold)
	if want := Build(Paragraph(Bold("abcd"))); !e.Document().Equal(want) {
		t.Errorf("mixed range should become fully bold, got %q", e.Document().Markdown())
	}
	e.Apply(CmdBold)
	if want := Build(Paragraph(Plain("abcd"))); !e.Document().Equal(want) {
		t.Errorf("uniform bold range should lose the mark, got %q", e.Document().Markdown())
	}
}
