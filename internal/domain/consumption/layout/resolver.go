package layout

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Column is the physical column bound to a semantic field.
type Column struct {
	Index  int    // 0-based position in the header row
	Header string // header text as it appeared
	Alias  string // alias that matched
}

// ColumnMapping maps semantic field names to physical columns.
type ColumnMapping map[string]Column

// ColumnResolver binds semantic fields to headers by normalized alias
// equality. It never binds on similarity; fuzzy matching only feeds the
// suggestions of a LayoutError.
type ColumnResolver struct {
	aliases    []FieldAlias
	normalized [][]string
}

// NewColumnResolver creates a resolver over the given alias lists.
func NewColumnResolver(aliases []FieldAlias) *ColumnResolver {
	r := &ColumnResolver{
		aliases:    aliases,
		normalized: make([][]string, len(aliases)),
	}
	for i, a := range aliases {
		keys := make([]string, len(a.Aliases))
		for j, alias := range a.Aliases {
			keys[j] = NormalizeHeader(alias)
		}
		r.normalized[i] = keys
	}
	return r
}

// Fields returns the semantic field names in declaration order.
func (r *ColumnResolver) Fields() []string {
	fields := make([]string, len(r.aliases))
	for i, a := range r.aliases {
		fields[i] = a.Field
	}
	return fields
}

// NormalizedAliases returns every normalized alias across fields.
func (r *ColumnResolver) NormalizedAliases() []string {
	var all []string
	for _, keys := range r.normalized {
		all = append(all, keys...)
	}
	return all
}

// Resolve binds each field to the first header matching its highest
// priority alias. A physical column is bound at most once.
func (r *ColumnResolver) Resolve(headers []string) (ColumnMapping, error) {
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = NormalizeHeader(h)
	}

	mapping := make(ColumnMapping, len(r.aliases))
	claimed := make(map[int]bool, len(headers))
	var missing []string

	for i, field := range r.aliases {
		col, ok := r.bind(i, headers, keys, claimed)
		if !ok {
			if !field.Optional {
				missing = append(missing, field.Field)
			}
			continue
		}
		claimed[col.Index] = true
		mapping[field.Field] = col
	}

	if len(missing) > 0 {
		return nil, &LayoutError{
			Diagnostic: Diagnostic{
				MissingFields:     missing,
				DiscoveredHeaders: nonBlank(headers),
				Suggestions:       r.suggest(missing, headers, keys, claimed),
			},
			Err: ErrUnresolvedFields,
		}
	}
	return mapping, nil
}

func (r *ColumnResolver) bind(field int, headers, keys []string, claimed map[int]bool) (Column, bool) {
	for a, alias := range r.normalized[field] {
		if alias == "" {
			continue
		}
		for idx, key := range keys {
			if claimed[idx] || key != alias {
				continue
			}
			return Column{Index: idx, Header: headers[idx], Alias: r.aliases[field].Aliases[a]}, true
		}
	}
	return Column{}, false
}

const maxSuggestions = 3

// suggest ranks unclaimed headers that resemble a missing field's aliases.
func (r *ColumnResolver) suggest(missing, headers, keys []string, claimed map[int]bool) map[string][]string {
	var candidates []string
	var candidateHeaders []string
	for i, key := range keys {
		if claimed[i] || key == "" {
			continue
		}
		candidates = append(candidates, key)
		candidateHeaders = append(candidateHeaders, headers[i])
	}
	if len(candidates) == 0 {
		return nil
	}

	out := make(map[string][]string)
	for _, field := range missing {
		best := make(map[int]int) // candidate index -> best distance
		for _, alias := range r.aliasesOf(field) {
			for _, rank := range fuzzy.RankFindNormalizedFold(alias, candidates) {
				keepBest(best, rank.OriginalIndex, rank.Distance)
			}
			for i, cand := range candidates {
				if fuzzy.MatchNormalizedFold(cand, alias) {
					keepBest(best, i, fuzzy.LevenshteinDistance(cand, alias))
					continue
				}
				if d := fuzzy.LevenshteinDistance(cand, alias); d <= 3 {
					keepBest(best, i, d)
				}
			}
		}
		if len(best) == 0 {
			continue
		}

		idx := make([]int, 0, len(best))
		for i := range best {
			idx = append(idx, i)
		}
		sort.Slice(idx, func(a, b int) bool {
			if best[idx[a]] != best[idx[b]] {
				return best[idx[a]] < best[idx[b]]
			}
			return idx[a] < idx[b]
		})
		if len(idx) > maxSuggestions {
			idx = idx[:maxSuggestions]
		}
		for _, i := range idx {
			out[field] = append(out[field], candidateHeaders[i])
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (r *ColumnResolver) aliasesOf(field string) []string {
	for i, a := range r.aliases {
		if a.Field == field {
			return r.normalized[i]
		}
	}
	return nil
}

func keepBest(best map[int]int, idx, distance int) {
	if d, ok := best[idx]; !ok || distance < d {
		best[idx] = distance
	}
}

func nonBlank(headers []string) []string {
	out := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}
