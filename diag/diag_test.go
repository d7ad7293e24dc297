package diag

import (
	"strings"
	"testing"
)

func TestErrorMessageFormat(t *testing.T) {
	err := New(Lex, 3, 7, "Unmatched token on line %d, column %d", 3, 7)
	want := "3:7: Unmatched token on line 3, column 7"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{Lex, "lex error"},
		{Parse, "parse error"},
		{Annotate, "annotate error"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestSnippetRendersCaretUnderColumn(t *testing.T) {
	src := "x = 1\ny = `\n"
	err := New(Lex, 2, 5, "Unmatched token on line 2, column 5").WithSource(src)

	snip := err.Snippet()
	if !strings.Contains(snip, "-->") {
		t.Errorf("Snippet() missing location marker: %q", snip)
	}
	if !strings.Contains(snip, "y = `") {
		t.Errorf("Snippet() missing offending line: %q", snip)
	}

	lines := strings.Split(snip, "\n")
	var caretLine string
	for _, l := range lines {
		if strings.Contains(l, "^") {
			caretLine = l
			break
		}
	}
	if caretLine == "" {
		t.Fatal("Snippet() produced no caret line")
	}
	if idx := strings.Index(caretLine, "^"); idx != strings.Index(caretLine, "|")+2+4 {
		// "   | " is 5 chars pushed out by the column offset; just check
		// the caret isn't at column 0, which would mean the offset logic
		// silently dropped the column entirely.
		if idx <= 0 {
			t.Errorf("caret position looks wrong: %q", caretLine)
		}
	}
}

func TestSnippetEmptyWithoutSource(t *testing.T) {
	err := New(Parse, 1, 1, "boom")
	if snip := err.Snippet(); snip != "" {
		t.Errorf("Snippet() = %q, want empty string with no source attached", snip)
	}
}

func TestWarningString(t *testing.T) {
	w := Warning{Message: "variable 'x' is bound but never accessed", Line: 4, Column: 2}
	want := "warning: 4:2: variable 'x' is bound but never accessed"
	if got := w.String(); got != want {
		t.Errorf("Warning.String() = %q, want %q", got, want)
	}
}
