package markup

import (
	"strings"
	"testing"
)

func TestToHTML_Headings(t *testing.T) {
	got := ToHTML("# Title\n## Section\n### Sub")
	want := "<h1>Title</h1>\n<h2>Section</h2>\n<h3>Sub</h3>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestToHTML_List(t *testing.T) {
	got := ToHTML("- one\n* two")
	want := "<ul>\n<li>one</li>\n<li>two</li>\n</ul>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestToHTML_ListClosedByParagraph(t *testing.T) {
	got := ToHTML("- one\n\nafter")
	want := "<ul>\n<li>one</li>\n</ul>\n<p>after</p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestToHTML_BoldAndItalic(t *testing.T) {
	got := ToHTML("**bold** and *slanted*")
	want := "<p><strong>bold</strong> and <em>slanted</em></p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestToHTML_AutoLink(t *testing.T) {
	got := ToHTML("see https://example.com/a?b=1 for details")
	if !strings.Contains(got, `<a href="https://example.com/a?b=1">https://example.com/a?b=1</a>`) {
		t.Errorf("URL not linked: %q", got)
	}
}

func TestToHTML_EscapesBeforeMarkup(t *testing.T) {
	got := ToHTML("a < b & **c > d**")
	want := "<p>a &lt; b &amp; <strong>c &gt; d</strong></p>"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestToHTML_NoDoubleEscape(t *testing.T) {
	// The <strong> tags introduced by substitution must survive.
	got := ToHTML("**x**")
	if strings.Contains(got, "&lt;strong&gt;") {
		t.Errorf("markup output was re-escaped: %q", got)
	}
}

func TestToPlainText_BlockTagsBecomeNewlines(t *testing.T) {
	got := ToPlainText("<h1>Title</h1>\n<p>first</p>\n<p>second</p>")
	if !strings.Contains(got, "Title") || !strings.Contains(got, "first") {
		t.Fatalf("text lost: %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("tags not stripped: %q", got)
	}
}

func TestToPlainText_UnescapesEntities(t *testing.T) {
	got := ToPlainText("<p>a &lt; b &amp; c &gt; d</p>")
	if got != "a < b & c > d" {
		t.Errorf("got %q", got)
	}
}

func TestToPlainText_CollapsesNewlines(t *testing.T) {
	got := ToPlainText("<p>a</p><br><br><br><p>b</p>")
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("newlines not collapsed: %q", got)
	}
}

func TestRoundTrip_PreservesWords(t *testing.T) {
	inputs := []string{
		"just a plain sentence",
		"first line\nsecond line",
		"one\n\ntwo\n\nthree",
	}
	for _, in := range inputs {
		out := ToPlainText(ToHTML(in))
		wantWords := strings.Fields(in)
		gotWords := strings.Fields(out)
		if len(gotWords) != len(wantWords) {
			t.Errorf("round trip of %q lost words: %q", in, out)
			continue
		}
		for i := range wantWords {
			if gotWords[i] != wantWords[i] {
				t.Errorf("round trip of %q changed word %d: %q", in, i, out)
				break
			}
		}
	}
}
