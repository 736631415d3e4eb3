package segment

import (
	"reflect"
	"testing"
)

func TestAnnotate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		furigana string
		want     []Annotation
	}{
		{
			name:     "aligned readings",
			text:     "学校の",
			furigana: "がっ,こう",
			want: []Annotation{
				{Index: 0, Rune: '学', Reading: "がっ"},
				{Index: 1, Rune: '校', Reading: "こう"},
			},
		},
		{
			name:     "empty slot skips ideograph",
			text:     "図書室",
			furigana: "と,,しつ",
			want: []Annotation{
				{Index: 0, Rune: '図', Reading: "と"},
				{Index: 2, Rune: '室', Reading: "しつ"},
			},
		},
		{
			name:     "no comma annotates first ideograph only",
			text:     "森の学校",
			furigana: "もり",
			want: []Annotation{
				{Index: 0, Rune: '森', Reading: "もり"},
			},
		},
		{
			name:     "surplus readings ignored",
			text:     "森へ",
			furigana: "もり,きょう,しつ",
			want: []Annotation{
				{Index: 0, Rune: '森', Reading: "もり"},
			},
		},
		{
			name:     "missing readings leave remainder unannotated",
			text:     "図書室",
			furigana: "と,しょ",
			want: []Annotation{
				{Index: 0, Rune: '図', Reading: "と"},
				{Index: 1, Rune: '書', Reading: "しょ"},
			},
		},
		{
			name:     "no ideographs",
			text:     "もりのなか",
			furigana: "もり",
			want:     nil,
		},
		{
			name:     "empty furigana",
			text:     "学校",
			furigana: "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Annotate(tt.text, tt.furigana)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf(
					"Annotate(%q, %q) = %+v, want %+v",
					tt.text,
					tt.furigana,
					got,
					tt.want,
				)
			}
		})
	}
}

func TestAnnotateNeverTouchesKana(t *testing.T) {
	for _, a := range Annotate("学校の", "がっ,こう,の") {
		if a.Rune == 'の' {
			t.Errorf("kana rune annotated: %+v", a)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		text     string
		furigana string
		want     string
	}{
		{"学校の", "がっ,こう", "学(がっ)校(こう)の"},
		{"図書室", "と,,しつ", "図(と)書室(しつ)"},
		{"もり", "", "もり"},
		{"森", "もり", "森(もり)"},
	}

	for _, tt := range tests {
		got := Render(tt.text, tt.furigana)
		if got != tt.want {
			t.Errorf("Render(%q, %q) = %q, want %q", tt.text, tt.furigana, got, tt.want)
		}
	}
}
