package registry

import (
	"sort"
	"strings"

	"github.com/rcaamano/fuelmigrate/internal/model"
	"github.com/rcaamano/fuelmigrate/internal/normalize"
)

const (
	// maxSuggestions caps how many candidates a lookup returns.
	maxSuggestions = 5
	// minScore is the exclusive lower bound for a candidate to surface.
	minScore = 0.3
	// AutoMapThreshold is the minimum top score for unattended mapping.
	AutoMapThreshold = 0.9
)

// Suggestion is one ranked candidate for a free-text unit name.
type Suggestion struct {
	AssetID   int64
	AssetName string
	Score     float64
	Plant     string
	Category  string
}

// Matcher ranks canonical assets against free-text unit names from legacy
// files. It is pure and in-memory: load the registry once per batch, then
// query as often as needed.
//
// The scoring is deliberately simple and its constants are load-bearing:
// existing mappings were produced by exactly this formula, so changing the
// thresholds silently reclassifies names. Known weakness: token matching
// does not strip accents or handle transposed word order.
type Matcher struct {
	assets []model.CanonicalAsset
}

// NewMatcher builds a Matcher over the given registry snapshot.
func NewMatcher(assets []model.CanonicalAsset) *Matcher {
	return &Matcher{assets: assets}
}

// Suggestions returns at most 5 candidates scoring above 0.3, sorted
// descending by score. Ties break on asset name for determinism.
func (m *Matcher) Suggestions(name string) []Suggestion {
	query := normalize.Name(name)
	if query == "" {
		return nil
	}

	var out []Suggestion
	for _, a := range m.assets {
		score := similarity(query, a)
		if score <= minScore {
			continue
		}
		out = append(out, Suggestion{
			AssetID:   a.ID,
			AssetName: a.DisplayName,
			Score:     score,
			Plant:     a.Plant,
			Category:  a.Category,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].AssetName < out[j].AssetName
	})
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// similarity scores a normalized query against one asset.
//
//	exact name or code match        -> 1.0
//	substring either direction      -> 0.8
//	token overlap                   -> ratio * 0.6
func similarity(query string, a model.CanonicalAsset) float64 {
	candidate := normalize.Name(a.DisplayName)
	code := normalize.Name(a.Code)

	if query == candidate || (code != "" && query == code) {
		return 1.0
	}
	if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
		return 0.8
	}

	qTokens := normalize.Tokens(query)
	cTokens := normalize.Tokens(candidate)
	matched := 0
	for _, qt := range qTokens {
		for _, ct := range cTokens {
			if strings.Contains(qt, ct) || strings.Contains(ct, qt) {
				matched++
				break
			}
		}
	}
	if matched == 0 {
		return 0
	}
	denom := len(qTokens)
	if len(cTokens) > denom {
		denom = len(cTokens)
	}
	return float64(matched) / float64(denom) * 0.6
}
