package dedup

import (
	"context"
	"testing"
)

type staticKeys struct {
	keys []string
}

func (s *staticKeys) KnownKeys(ctx context.Context) ([]string, error) {
	return s.keys, nil
}

func newTestDeduplicator(t *testing.T, keys ...string) (*Deduplicator, *staticKeys) {
	t.Helper()

	lister := &staticKeys{keys: keys}
	d, err := New(context.Background(), lister, Config{})
	if err != nil {
		t.Fatalf("Failed to create deduplicator: %v", err)
	}
	return d, lister
}

func TestTokenSortRatio_Identical(t *testing.T) {
	if got := (TokenSortRatio{}).Ratio("lucali", "lucali"); got != 100 {
		t.Errorf("Expected 100 for identical strings, got %f", got)
	}
}

func TestTokenSortRatio_OrderInsensitive(t *testing.T) {
	if got := (TokenSortRatio{}).Ratio("joes pizza", "pizza joes"); got != 100 {
		t.Errorf("Expected 100 for reordered tokens, got %f", got)
	}
}

func TestTokenSortRatio_Dissimilar(t *testing.T) {
	got := (TokenSortRatio{}).Ratio("lucali", "balthazar")
	if got >= DefaultThreshold {
		t.Errorf("Expected dissimilar names below threshold, got %f", got)
	}
}

func TestTokenSortRatio_NearMiss(t *testing.T) {
	// One edit across 16 runes stays well above the threshold.
	got := (TokenSortRatio{}).Ratio("lucali_brooklyn", "lucalli_brooklyn")
	if got < DefaultThreshold {
		t.Errorf("Expected near-duplicate above threshold, got %f", got)
	}
}

func TestFindSimilarPlace_ExactMatch(t *testing.T) {
	d, _ := newTestDeduplicator(t, "lucali_brooklyn", "di_fara")

	key, score, ok := d.FindSimilarPlace("Lucali", "Brooklyn")
	if !ok {
		t.Fatal("Expected a match for exact key")
	}
	if key != "lucali_brooklyn" {
		t.Errorf("Expected key lucali_brooklyn, got %s", key)
	}
	if score != 100 {
		t.Errorf("Expected score 100 for exact match, got %f", score)
	}
}

func TestFindSimilarPlace_FuzzyMatch(t *testing.T) {
	d, _ := newTestDeduplicator(t, "lucali_brooklyn", "totonnos")

	key, score, ok := d.FindSimilarPlace("Lucalli", "Brooklyn")
	if !ok {
		t.Fatal("Expected a fuzzy match")
	}
	if key != "lucali_brooklyn" {
		t.Errorf("Expected key lucali_brooklyn, got %s", key)
	}
	if score < DefaultThreshold || score >= 100 {
		t.Errorf("Expected fuzzy score in [85, 100), got %f", score)
	}
}

func TestFindSimilarPlace_BelowThreshold(t *testing.T) {
	d, _ := newTestDeduplicator(t, "balthazar", "carbone")

	if _, _, ok := d.FindSimilarPlace("Totonno's", ""); ok {
		t.Error("Expected no match below the threshold")
	}
}

func TestFindSimilarPlace_EmptyKnownSet(t *testing.T) {
	d, _ := newTestDeduplicator(t)

	if _, _, ok := d.FindSimilarPlace("Lucali", ""); ok {
		t.Error("Expected no match with an empty known set")
	}
}

func TestFindSimilarPlace_ReturnsGlobalBest(t *testing.T) {
	// Both known keys clear the threshold; the closer one must win
	// regardless of map iteration order.
	d, _ := newTestDeduplicator(t, "lucali_brooklyn", "lucali_broklyn")

	key, _, ok := d.FindSimilarPlace("lucali brooklin", "")
	if !ok {
		t.Fatal("Expected a match")
	}
	if key != "lucali_brooklyn" {
		t.Errorf("Expected the highest-scoring key, got %s", key)
	}
}

func TestRefresh(t *testing.T) {
	d, lister := newTestDeduplicator(t)

	if _, _, ok := d.FindSimilarPlace("Lucali", ""); ok {
		t.Fatal("Expected no match before refresh")
	}

	lister.keys = []string{"lucali"}
	if err := d.Refresh(context.Background()); err != nil {
		t.Fatalf("Failed to refresh: %v", err)
	}

	if _, _, ok := d.FindSimilarPlace("Lucali", ""); !ok {
		t.Error("Expected a match after refresh")
	}
}

func TestDeduplicateBatch_MergesNearDuplicates(t *testing.T) {
	d, _ := newTestDeduplicator(t)

	matches := d.DeduplicateBatch([]string{"Joe's Pizza", "joes pizza", "Very Different Place"})
	if len(matches) != 3 {
		t.Fatalf("Expected 3 matches, got %d", len(matches))
	}

	if matches[0].CanonicalKey != matches[1].CanonicalKey {
		t.Errorf("Expected near-duplicates to share a canonical key, got %s and %s",
			matches[0].CanonicalKey, matches[1].CanonicalKey)
	}
	if matches[2].CanonicalKey == matches[0].CanonicalKey {
		t.Errorf("Expected distinct place to keep its own key, got %s", matches[2].CanonicalKey)
	}
	if matches[2].CanonicalKey != "very_different_place" {
		t.Errorf("Expected key very_different_place, got %s", matches[2].CanonicalKey)
	}
}

func TestDeduplicateBatch_BatchLocalOnly(t *testing.T) {
	// The persistent known set must not influence batch-local dedup.
	d, _ := newTestDeduplicator(t, "joes")

	matches := d.DeduplicateBatch([]string{"Joe's Pizza"})
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].CanonicalKey != "joes" {
		t.Errorf("Expected freshly minted key joes, got %s", matches[0].CanonicalKey)
	}
}

func TestDeduplicateBatch_PreservesOrder(t *testing.T) {
	d, _ := newTestDeduplicator(t)

	names := []string{"Carbone", "Balthazar", "carbone nyc"}
	matches := d.DeduplicateBatch(names)

	for i, m := range matches {
		if m.Original != names[i] {
			t.Errorf("Expected original %q at index %d, got %q", names[i], i, m.Original)
		}
	}
}
