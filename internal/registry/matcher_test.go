package registry

import (
	"testing"

	"github.com/rcaamano/fuelmigrate/internal/model"
)

func testAssets() []model.CanonicalAsset {
	return []model.CanonicalAsset{
		{ID: 1, DisplayName: "Excavadora 12", Code: "EXC-12", Plant: "Norte", Category: "excavadora", Active: true},
		{ID: 2, DisplayName: "Excavadora 14", Code: "EXC-14", Plant: "Norte", Category: "excavadora", Active: true},
		{ID: 3, DisplayName: "Camion Volvo FH", Code: "CAM-03", Plant: "Sur", Category: "camion", Active: true},
		{ID: 4, DisplayName: "Generador Diesel 50kW", Code: "GEN-50", Plant: "Norte", Category: "generador", Active: true},
		{ID: 5, DisplayName: "Retroexcavadora JCB", Code: "RET-01", Plant: "Sur", Category: "retro", Active: true},
	}
}

func TestSuggestions_ExactMatchScoresOne(t *testing.T) {
	m := NewMatcher(testAssets())
	got := m.Suggestions("Excavadora 12")
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	if got[0].AssetID != 1 || got[0].Score != 1.0 {
		t.Errorf("top: got asset %d score %v, want asset 1 score 1.0", got[0].AssetID, got[0].Score)
	}
}

func TestSuggestions_ExactCodeMatch(t *testing.T) {
	m := NewMatcher(testAssets())
	got := m.Suggestions("exc-12")
	if len(got) == 0 || got[0].AssetID != 1 || got[0].Score != 1.0 {
		t.Fatalf("code match: got %+v", got)
	}
}

func TestSuggestions_SubstringScoresPointEight(t *testing.T) {
	m := NewMatcher(testAssets())
	got := m.Suggestions("Camion Volvo")
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	if got[0].AssetID != 3 || got[0].Score != 0.8 {
		t.Errorf("substring: got asset %d score %v, want asset 3 score 0.8", got[0].AssetID, got[0].Score)
	}
}

func TestSuggestions_TokenOverlap(t *testing.T) {
	m := NewMatcher(testAssets())
	// "generador 50kw" vs "generador diesel 50kw": 2 of max(2,3) tokens -> 0.4
	got := m.Suggestions("Generador 50kW")
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	want := 2.0 / 3.0 * 0.6
	if got[0].AssetID != 4 || got[0].Score != want {
		t.Errorf("token overlap: got asset %d score %v, want asset 4 score %v", got[0].AssetID, got[0].Score, want)
	}
}

func TestSuggestions_TokenMatchNormalizesWhitespaceAndCase(t *testing.T) {
	m := NewMatcher([]model.CanonicalAsset{
		{ID: 6, DisplayName: "  GRUA   Torre 2 ", Code: "GT-02", Plant: "Sur", Category: "grua", Active: true},
	})
	got := m.Suggestions(" grua \t 2 ")
	if len(got) == 0 {
		t.Fatal("expected suggestions")
	}
	want := 2.0 / 3.0 * 0.6
	if got[0].AssetID != 6 || got[0].Score != want {
		t.Errorf("messy input: got asset %d score %v, want asset 6 score %v", got[0].AssetID, got[0].Score, want)
	}
}

func TestSuggestions_SortedDescendingWithinBounds(t *testing.T) {
	m := NewMatcher(testAssets())
	got := m.Suggestions("Excavadora")
	if len(got) > maxSuggestions {
		t.Fatalf("returned %d suggestions, cap is %d", len(got), maxSuggestions)
	}
	for i, s := range got {
		if s.Score <= minScore || s.Score > 1.0 {
			t.Errorf("score out of range: %v", s.Score)
		}
		if i > 0 && got[i-1].Score < s.Score {
			t.Errorf("not sorted descending at %d: %v then %v", i, got[i-1].Score, s.Score)
		}
	}
}

func TestSuggestions_LowScoreExcluded(t *testing.T) {
	m := NewMatcher(testAssets())
	for _, s := range m.Suggestions("Bomba de agua 7") {
		if s.Score <= minScore {
			t.Errorf("candidate %q with score %v should be excluded", s.AssetName, s.Score)
		}
	}
}

func TestSuggestions_EmptyName(t *testing.T) {
	m := NewMatcher(testAssets())
	if got := m.Suggestions("   "); got != nil {
		t.Errorf("expected nil for blank name, got %v", got)
	}
}
