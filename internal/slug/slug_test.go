package slug

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// TestGenerate exercises the slug generator with typical listing and blog
// titles, punctuation, whitespace and edge cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		// --- Normal titles ---
		{"simple two words", "Hello World", "hello-world"},
		{"property title", "Sunny 3 Bedroom Villa", "sunny-3-bedroom-villa"},
		{"single word", "Penthouse", "penthouse"},

		// --- Special characters ---
		{"punctuation marks", "Hello, World! How's it going?", "hello-world-hows-it-going"},
		{"ampersand and at sign", "Rock & Roll @ the Arena", "rock-roll-the-arena"},
		{"parentheses and brackets", "Version (2.0) [Beta]", "version-20-beta"},
		{"price in title", "Condo for $250,000", "condo-for-250000"},
		{"slashes", "Sale/Rent", "salerent"},

		// --- Whitespace handling ---
		{"leading and trailing spaces", "  hello world  ", "hello-world"},
		{"multiple consecutive spaces", "hello    world", "hello-world"},
		{"tab joins words", "hello\tworld", "hello-world"},
		{"newline joins words", "hello\nworld", "hello-world"},

		// --- Hyphen handling ---
		{"leading hyphens", "---hello world", "hello-world"},
		{"multiple hyphens between words", "hello---world", "hello-world"},
		{"single hyphen preserved", "well-known fact", "well-known-fact"},
		{"hyphens and spaces mixed", "  --hello -- world--  ", "hello-world"},

		// --- Edge cases ---
		{"empty string", "", ""},
		{"only spaces", "     ", ""},
		{"only special characters", "!@#$%^&*()", ""},
		{"non-latin only", "日本語", ""},
		{"date-like string", "2026-02-25", "2026-02-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "villa-2026-1", "a", "123"} {
		if got := Generate(s); got != s {
			t.Errorf("Generate(%q) = %q, want idempotent result", s, got)
		}
	}
}

// takenSet fakes a table's slug column.
type takenSet map[string]bool

func (ts takenSet) exists(_ context.Context, s string) (bool, error) {
	return ts[s], nil
}

func TestUnique(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		taken takenSet
		want  string
	}{
		{"free", "sunny-villa", takenSet{}, "sunny-villa"},
		{"first suffix", "sunny-villa", takenSet{"sunny-villa": true}, "sunny-villa-1"},
		{"skips taken suffixes", "sunny-villa", takenSet{"sunny-villa": true, "sunny-villa-1": true, "sunny-villa-2": true}, "sunny-villa-3"},
		{"empty base", "", takenSet{}, Fallback},
		{"empty base taken", "", takenSet{Fallback: true}, Fallback + "-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Unique(context.Background(), tt.base, 0, tt.taken.exists)
			if err != nil {
				t.Fatalf("Unique: %v", err)
			}
			if got != tt.want {
				t.Errorf("Unique(%q) = %q, want %q", tt.base, got, tt.want)
			}
		})
	}
}

// TestUnique_SameTitleTwice simulates two creates with the same title.
func TestUnique_SameTitleTwice(t *testing.T) {
	taken := takenSet{}
	base := Generate("Modern Loft Downtown")

	first, _ := Unique(context.Background(), base, 0, taken.exists)
	taken[first] = true
	second, _ := Unique(context.Background(), base, 0, taken.exists)

	if first != "modern-loft-downtown" || second != "modern-loft-downtown-1" {
		t.Errorf("got %q then %q", first, second)
	}
}

// TestUnique_MaxLength submits the same maximum-length title twice; both
// slugs must fit the column.
func TestUnique_MaxLength(t *testing.T) {
	const width = 300
	taken := takenSet{}
	base := Generate(strings.Repeat("a", width))

	first, err := Unique(context.Background(), base, width, taken.exists)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	taken[first] = true
	second, err := Unique(context.Background(), base, width, taken.exists)
	if err != nil {
		t.Fatalf("second: %v", err)
	}

	if first != base {
		t.Errorf("first: got len %d, want the untouched base", len(first))
	}
	if len(second) > width {
		t.Errorf("second: len %d exceeds %d", len(second), width)
	}
	if want := strings.Repeat("a", width-2) + "-1"; second != want {
		t.Errorf("second: got %q, want %q", second, want)
	}
}

func TestUnique_MaxLengthTrimsHyphenAtCut(t *testing.T) {
	// Cutting "abc-def" to make room for "-1" would leave "abc-".
	got, err := Unique(context.Background(), "abc-def", 6, takenSet{"abc-de": true}.exists)
	if err != nil {
		t.Fatal(err)
	}
	if got != "abc-1" {
		t.Errorf("got %q, want %q", got, "abc-1")
	}

	got, _ = Unique(context.Background(), "abcdef-ghi", 9, takenSet{}.exists)
	if got != "abcdef-gh" {
		t.Errorf("over-long base: got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"sunny-villa", 6, "sunny"},
		{"sunny-villa", 8, "sunny-vi"},
		{"no-limit", 0, "no-limit"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestUnique_PropagatesError(t *testing.T) {
	boom := errors.New("connection reset")
	_, err := Unique(context.Background(), "x", 0, func(context.Context, string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want wrapped %v", err, boom)
	}
}

func TestFromTitle(t *testing.T) {
	if got := FromTitle("Ocean View", ""); got != "ocean-view" {
		t.Errorf("derived: got %q", got)
	}
	if got := FromTitle("Ocean View", "Custom Slug!"); got != "custom-slug" {
		t.Errorf("explicit: got %q", got)
	}
	if got := FromTitle("Ocean View", "!!!"); got != "ocean-view" {
		t.Errorf("unusable explicit: got %q", got)
	}
}
