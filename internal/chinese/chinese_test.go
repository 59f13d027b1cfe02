package chinese

import "testing"

func TestToSimplifiedConvertsCommonTitleCharacters(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"劍來", "剑来"},
		{"凡人修仙傳", "凡人修仙传"},
		{"與鳳行", "与凤行"},
		{"長風渡", "长风渡"},
		{"already simplified 剑来", "already simplified 剑来"},
	}
	for _, tc := range cases {
		if got := ToSimplified(tc.in); got != tc.want {
			t.Fatalf("ToSimplified(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToSimplifiedPreservesFullWidthColon(t *testing.T) {
	got := ToSimplified("凡人修仙傳：仙界篇")
	if got != "凡人修仙传：仙界篇" {
		t.Fatalf("unexpected conversion: %q", got)
	}
}

func TestToSimplifiedFoldsFullWidthASCII(t *testing.T) {
	if got := ToSimplified("ＡＢＣ１２３"); got != "ABC123" {
		t.Fatalf("expected width folding, got %q", got)
	}
}

func TestToSimplifiedPassesUnknownRunesThrough(t *testing.T) {
	in := "Ωなに? 日本語"
	if got := ToSimplified(in); got != in {
		t.Fatalf("unknown runes must pass through, got %q", got)
	}
}

func TestHasTraditional(t *testing.T) {
	if !HasTraditional("劍來") {
		t.Fatalf("expected traditional characters detected")
	}
	if HasTraditional("剑来") {
		t.Fatalf("simplified text must not be flagged")
	}
}
