package normalize

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want string
	}{
		{"Lucali Pizza", "", "lucali"},
		{"Joe's Pizza", "", "joes"},
		{"Joe's", "", "joes"},
		{"  The Dead Rabbit Grill  ", "", "the_dead_rabbit"},
		{"St. Anselm", "", "st_anselm"},
		{"Di Fara Pizza", "Brooklyn NY", "di_fara_brooklyn_ny"},
		{"Cafe Mogador", "", "mogador"},
		{"L'Artusi", "", "lartusi"},
		{"Smith & Wollensky", "", "smith_wollensky"},
	}

	for _, tt := range tests {
		if got := Key(tt.name, tt.hint); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.name, tt.hint, got, tt.want)
		}
	}
}

func TestKey_Idempotent(t *testing.T) {
	inputs := []struct {
		name string
		hint string
	}{
		{"Joe's Pizza", ""},
		{"Lucali", "Carroll Gardens, Brooklyn"},
		{"The Commodore Bar & Restaurant", ""},
		{"Café Habana", "NYC"},
		{"", ""},
	}

	for _, in := range inputs {
		once := Key(in.name, in.hint)
		twice := Key(once, "")
		if once != twice {
			t.Errorf("Key not idempotent for (%q, %q): %q != %q", in.name, in.hint, once, twice)
		}
	}
}

func TestKey_SuffixStripping(t *testing.T) {
	if Key("Joe's Pizza", "") != Key("Joe's", "") {
		t.Errorf("expected %q and %q to share a key", "Joe's Pizza", "Joe's")
	}
	if Key("The Commodore Bar", "") != Key("The Commodore", "") {
		t.Errorf("expected %q and %q to share a key", "The Commodore Bar", "The Commodore")
	}
}

func TestKey_SuffixWholeWordsOnly(t *testing.T) {
	// "bar" must not be stripped out of "Barley".
	if got := Key("Barley House", ""); got != "barley_house" {
		t.Errorf("Key(\"Barley House\") = %q, want %q", got, "barley_house")
	}
	// "co" must not be stripped out of "Coney".
	if got := Key("Coney Island Social", ""); got != "coney_island_social" {
		t.Errorf("Key(\"Coney Island Social\") = %q, want %q", got, "coney_island_social")
	}
}

func TestKey_NoHintSeparatorWithoutHint(t *testing.T) {
	if got := Key("Lucali", ""); got != "lucali" {
		t.Errorf("Key(\"Lucali\", \"\") = %q, want %q", got, "lucali")
	}
}
