package slides

import (
	"reflect"
	"testing"
)

func TestSentences(t *testing.T) {
	got := sentences("Pi is 3.14 roughly. Is it? Yes!  Trailing words")
	want := []string{"Pi is 3.14 roughly.", "Is it?", "Yes!", "Trailing words"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sentences = %q, want %q", got, want)
	}
}

func TestPick(t *testing.T) {
	text := "Short. This sentence is long enough. Another long sentence here. Tiny."
	if got := pick(text, 5, 10); len(got) != 2 {
		t.Errorf("expected 2 long sentences, got %q", got)
	}
	if got := pick(text, 1, 0); len(got) != 1 || got[0] != "Short." {
		t.Errorf("limit 1: got %q", got)
	}
	if got := pick("tiny", 3, 10); len(got) != 1 || got[0] != "tiny" {
		t.Errorf("no qualifying sentence should return the text, got %q", got)
	}
	if got := pick("   ", 3, 0); len(got) != 0 {
		t.Errorf("blank text should return nothing, got %q", got)
	}
}

func TestFormulas(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"Let x = 3y + 2, then stop.", []string{"x = 3y + 2"}},
		{"Growth like n^2 is quadratic.", []string{"n^2"}},
		{"Check that 3 + 4 = 7 holds.", []string{"3 + 4 = 7"}},
		{`Half is \frac{1}{2} of it.`, []string{`\frac{1}{2}`}},
		{"No math here.", nil},
	}
	for _, c := range cases {
		got := formulas(c.text, maxFormulas)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("formulas(%q) = %q, want %q", c.text, got, c.want)
		}
	}
}

func TestFormulas_limit(t *testing.T) {
	got := formulas("a = 1, b = 2, c = 3, d = 4", maxFormulas)
	if len(got) != maxFormulas {
		t.Errorf("expected %d formulas, got %q", maxFormulas, got)
	}
}

func TestWrapColumns(t *testing.T) {
	got := wrapColumns("The quick brown fox jumps over the lazy dog", 15)
	want := []string{"The quick brown", "fox jumps over", "the lazy dog"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wrapColumns = %q, want %q", got, want)
	}
	if got := wrapColumns("", 10); got != nil {
		t.Errorf("empty text: got %q", got)
	}
}
