package browse

import (
	"cmp"
	"slices"

	"github.com/hbollon/go-edlib"

	"github.com/vmunix/filmlib/internal/production"
)

// minSimilarity is the Jaro-Winkler score below which a title is not
// worth suggesting.
const minSimilarity = 0.70

// Suggest returns up to limit titles from list closest to title, best
// first. Used to enrich "not found" messages.
func Suggest(list []*production.Production, title string, limit int) []string {
	if limit <= 0 || title == "" {
		return nil
	}
	type scored struct {
		title string
		score float64
	}
	needle := fold(title)
	seen := make(map[string]bool)
	var candidates []scored
	for _, p := range list {
		if seen[p.Title()] {
			continue
		}
		seen[p.Title()] = true
		score := float64(edlib.JaroWinklerSimilarity(needle, fold(p.Title())))
		if score >= minSimilarity {
			candidates = append(candidates, scored{title: p.Title(), score: score})
		}
	}
	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	out := make([]string, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, c.title)
	}
	return out
}
