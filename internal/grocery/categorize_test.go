package grocery

import "testing"

func TestCategorizeExactMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"milk", "Dairy"},
		{"chicken", "Meat"},
		{"broccoli", "Vegetables"},
		{"banana", "Fruits"},
		{"rice", "Grains"},
		{"chocolate", "Sweets"},
		{"olive oil", "Oils"},
		{"  MILK  ", "Dairy"},
	}
	for _, tt := range tests {
		if got := Categorize(tt.input); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeSubstringMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"chicken breast", "Meat"},
		{"whole wheat bread", "Grains"},
		{"vanilla ice cream", "Sweets"},
		{"heavy cream", "Dairy"},
		{"extra virgin olive oil", "Oils"},
		{"organic baby spinach", "Vegetables"},
		{"fresh pineapple chunks", "Fruits"},
		{"grilled eggplant", "Vegetables"},
		{"canned peaches", "Fruits"},
	}
	for _, tt := range tests {
		if got := Categorize(tt.input); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeFallback(t *testing.T) {
	for _, input := range []string{"", "   ", "dish soap", "batteries"} {
		if got := Categorize(input); got != Fallback {
			t.Errorf("Categorize(%q) = %q, want %q", input, got, Fallback)
		}
	}
}

func TestVocabularyCoversCategories(t *testing.T) {
	for _, c := range Categories {
		if len(vocabulary[c]) == 0 {
			t.Errorf("category %q has no keywords", c)
		}
	}
	if len(vocabulary) != len(Categories) {
		t.Errorf("vocabulary has %d categories, want %d", len(vocabulary), len(Categories))
	}
}
